package provision

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soyeahso/roster/internal/fsutil"
)

// workspaceDirs are created under the workspace root. Existing directories
// are left alone.
var workspaceDirs = []string{"memory", "skills", "scripts", ".credentials"}

// sharedDocs are copied from the main agent's workspace when present there
// and absent here. A missing source is silently skipped.
var sharedDocs = []string{"AGENTS.md", "USER.md"}

// templateContext parameterizes the workspace documents.
type templateContext struct {
	Name  string
	Emoji string
	Soul  string
	Model string
	Date  string
}

type workspaceDoc struct {
	Name    string
	Content string
}

// workspaceDocs returns the documents scaffolded into a fresh workspace,
// in the order they are written. Each is written once; an existing file is
// never overwritten.
func workspaceDocs(tc templateContext) []workspaceDoc {
	soul := tc.Soul
	if soul == "" {
		soul = "Helpful, direct, and curious."
	}
	return []workspaceDoc{
		{"SOUL.md", fmt.Sprintf("# SOUL.md — Who You Are\n\nYou are **%s** %s.\n\n%s\n\n- Be genuinely helpful.\n- Keep privacy and safety first.\n- When unsure, ask your human.\n", tc.Name, tc.Emoji, soul)},
		{"IDENTITY.md", fmt.Sprintf("# IDENTITY.md — Who Am I?\n\n- **Name:** %s\n- **Emoji:** %s\n- **Model:** %s\n- **Provisioned:** %s\n", tc.Name, tc.Emoji, tc.Model, tc.Date)},
		{"MEMORY.md", "# MEMORY.md — Long-Term Memory\n\nCurate durable memory here: key facts, decisions, preferences, open loops.\nKeep it concise and high-signal. Details go in memory/.\n"},
		{"TASKS.md", fmt.Sprintf("# TASKS.md — Open Work\n\nTrack what %s is working on. One task per line, newest first.\nMove finished work to MEMORY.md when it matters long-term.\n", tc.Name)},
		{"TOOLS.md", "# TOOLS.md — Local Notes\n\nStore machine-specific tool notes here: SSH aliases, hostnames, local paths.\nScripts live in scripts/, reusable skills in skills/.\n"},
		{"HEARTBEAT.md", fmt.Sprintf("# HEARTBEAT.md\n\n# Keep this file empty (or comments only) to skip heartbeat work.\n# Add periodic checks you want %s to run.\n", tc.Name)},
		{"BOOTSTRAP.md", fmt.Sprintf("# BOOTSTRAP.md — First Session\n\nYou are %s, freshly provisioned on %s.\nRead SOUL.md and IDENTITY.md, introduce yourself to the main agent,\nand gather practical preferences from your human.\n", tc.Name, tc.Date)},
		{".gitignore", ".credentials/\nmemory/*.db\n*.log\n"},
	}
}

// scaffoldWorkspace creates the directory tree and writes any missing
// documents. Counts are reported for the step log.
func scaffoldWorkspace(root string, tc templateContext) (created, skipped int, err error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return 0, 0, fmt.Errorf("creating workspace %s: %w", root, err)
	}
	for _, d := range workspaceDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return 0, 0, fmt.Errorf("creating workspace dir %s: %w", d, err)
		}
	}
	for _, doc := range workspaceDocs(tc) {
		wrote, err := fsutil.WriteFileIfMissing(filepath.Join(root, doc.Name), []byte(doc.Content), 0o644)
		if err != nil {
			return created, skipped, fmt.Errorf("writing %s: %w", doc.Name, err)
		}
		if wrote {
			created++
		} else {
			skipped++
		}
	}
	return created, skipped, nil
}

// copySharedDocs copies shared onboarding documents from the main agent's
// workspace. Returns the names actually copied.
func copySharedDocs(sharedWorkspace, root string) ([]string, error) {
	if sharedWorkspace == "" {
		return nil, nil
	}
	var copied []string
	for _, name := range sharedDocs {
		did, err := fsutil.CopyFileIfMissing(filepath.Join(sharedWorkspace, name), filepath.Join(root, name))
		if err != nil {
			return copied, fmt.Errorf("copying %s: %w", name, err)
		}
		if did {
			copied = append(copied, name)
		}
	}
	return copied, nil
}
