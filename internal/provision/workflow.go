package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/roster/internal/config"
	"github.com/soyeahso/roster/internal/dashboard"
	"github.com/soyeahso/roster/internal/gatewaycli"
	"github.com/soyeahso/roster/internal/gatewayconf"
	"github.com/soyeahso/roster/internal/logging"
	"github.com/soyeahso/roster/internal/telegram"
)

// GatewayClient is the slice of the gateway CLI the workflow needs.
type GatewayClient interface {
	ListAgents(ctx context.Context) ([]gatewaycli.Agent, error)
	AddAgent(ctx context.Context, id, workspace, model string) error
	SetIdentity(ctx context.Context, id, name, emoji string) error
}

// TokenVerifier checks a channel bot token against its provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// ReloadNotifier nudges the running gateway to reload its config.
type ReloadNotifier interface {
	Reload(ctx context.Context, port int, token string) (string, error)
}

// WorkflowConfig wires the workflow's collaborators. Now and Hostname default
// to the real clock and host when nil.
type WorkflowConfig struct {
	Settings config.Settings
	// DashboardPath is the dashboard registry file, resolved by the caller.
	DashboardPath string

	Gateway  GatewayClient
	Verifier TokenVerifier
	Notifier ReloadNotifier
	Store    *gatewayconf.Store
	Log      *logging.Logger
	Now      func() time.Time
	Hostname func() (string, error)
}

// Workflow runs the provisioning sequence. One Workflow handles one run at a
// time; callers wanting concurrency create separate instances.
type Workflow struct {
	cfg WorkflowConfig
	log *logging.Logger
}

// NewWorkflow creates a workflow from wired collaborators.
func NewWorkflow(cfg WorkflowConfig) *Workflow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Hostname == nil {
		cfg.Hostname = os.Hostname
	}
	return &Workflow{cfg: cfg, log: cfg.Log.Sub("provision")}
}

// severity classifies a step failure. Fatal aborts the run; degraded logs a
// warning line and continues.
type severity int

const (
	sevFatal severity = iota
	sevDegraded
)

// runState is the mutable state threaded through the steps of one run.
type runState struct {
	req       Request
	id        string
	name      string
	model     string
	workspace string

	telegramBound    bool
	telegramUsername string

	port      int
	authToken string

	result *Result
}

func (st *runState) logf(format string, args ...any) {
	st.result.Log = append(st.result.Log, fmt.Sprintf(format, args...))
}

// step pairs a run function with its failure severity. The severity table is
// the error policy: which failures abort and which merely degrade lives
// here, not in scattered conditionals.
type step struct {
	name     string
	severity severity
	run      func(ctx context.Context, st *runState) error
}

// Run executes the provisioning sequence for one request. It never returns a
// Go error; the Result carries the verdict, error description, and step log.
func (w *Workflow) Run(ctx context.Context, req Request) Result {
	result := Result{RunID: uuid.New().String()}
	st := &runState{req: req, result: &result, port: 18789}

	steps := []step{
		{"validate", sevFatal, w.validate},
		{"guard", sevFatal, w.guardExisting},
		{"workspace", sevFatal, w.scaffold},
		{"register", sevDegraded, w.register},
		{"identity", sevDegraded, w.setIdentity},
		{"telegram", sevDegraded, w.verifyTelegram},
		{"config", sevDegraded, w.updateGatewayConfig},
		{"dashboard", sevDegraded, w.updateDashboard},
		{"reload", sevDegraded, w.reloadGateway},
	}

	for _, s := range steps {
		err := s.run(ctx, st)
		if err == nil {
			continue
		}

		// An explicitly rejected token aborts even though the telegram
		// step is otherwise best-effort.
		if s.severity == sevFatal || errors.Is(err, telegram.ErrInvalidToken) {
			w.log.Error().Str("step", s.name).Str("agent", st.id).Err(err).Msg("provisioning failed")
			result.Err = userFacingError(err)
			st.logf("failed: %s", result.Err)
			return result
		}

		w.log.Warn().Str("step", s.name).Str("agent", st.id).Err(err).Msg("continuing with degraded provisioning")
		st.logf("warning: %v", err)
	}

	result.OK = true
	result.Message = fmt.Sprintf("Agent %s is live", st.name)
	st.logf("done: %s", result.Message)
	w.log.Info().Str("agent", st.id).Str("workspace", st.workspace).Msg("agent provisioned")
	return result
}

// userFacingError keeps the rejected-token message stable for callers and
// history records.
func userFacingError(err error) string {
	if errors.Is(err, telegram.ErrInvalidToken) {
		return "Invalid Telegram bot token"
	}
	return err.Error()
}

// validate derives the agent id and resolves defaults. Runs before any
// filesystem or external call.
func (w *Workflow) validate(ctx context.Context, st *runState) error {
	name := strings.TrimSpace(st.req.Name)
	st.id = DeriveAgentID(name)
	if st.id == "" {
		return fmt.Errorf("agent name %q contains no usable characters", st.req.Name)
	}
	st.name = DisplayName(name)
	st.model = strings.TrimSpace(st.req.Model)
	if st.model == "" {
		st.model = w.cfg.Settings.Defaults.Model
	}
	st.workspace = filepath.Join(w.cfg.Settings.Agents.Dir, st.id)

	st.result.AgentID = st.id
	st.result.Name = st.name
	st.result.Emoji = st.req.Emoji
	st.result.Model = st.model
	st.result.Workspace = st.workspace
	st.logf("provisioning %s (%s)", st.name, st.id)
	return nil
}

// guardExisting rejects ids already registered with the gateway. A list
// failure is treated as "no conflict found", not as an error; the gateway
// may simply not be running yet.
func (w *Workflow) guardExisting(ctx context.Context, st *runState) error {
	agents, err := w.cfg.Gateway.ListAgents(ctx)
	if err != nil {
		w.log.Debug().Err(err).Msg("could not list agents, assuming no conflict")
		st.logf("gateway agent list unavailable, assuming %s is new", st.id)
		return nil
	}
	for _, a := range agents {
		if a.ID == st.id {
			return fmt.Errorf("agent %q already exists", st.id)
		}
	}
	return nil
}

func (w *Workflow) scaffold(ctx context.Context, st *runState) error {
	tc := templateContext{
		Name:  st.name,
		Emoji: st.req.Emoji,
		Soul:  strings.TrimSpace(st.req.Soul),
		Model: st.model,
		Date:  w.cfg.Now().Format("2006-01-02"),
	}
	created, skipped, err := scaffoldWorkspace(st.workspace, tc)
	if err != nil {
		return err
	}
	copied, err := copySharedDocs(w.cfg.Settings.Agents.SharedWorkspace, st.workspace)
	if err != nil {
		return err
	}
	st.logf("workspace ready at %s (%d files created, %d kept)", st.workspace, created, skipped)
	if len(copied) > 0 {
		st.logf("copied shared docs: %s", strings.Join(copied, ", "))
	}
	return nil
}

func (w *Workflow) register(ctx context.Context, st *runState) error {
	if err := w.cfg.Gateway.AddAgent(ctx, st.id, st.workspace, st.model); err != nil {
		return fmt.Errorf("gateway registration failed: %w", err)
	}
	st.logf("registered %s with gateway (model %s)", st.id, st.model)
	return nil
}

func (w *Workflow) setIdentity(ctx context.Context, st *runState) error {
	if err := w.cfg.Gateway.SetIdentity(ctx, st.id, st.name, st.req.Emoji); err != nil {
		return fmt.Errorf("setting gateway identity failed: %w", err)
	}
	st.logf("identity set: %s %s", st.name, st.req.Emoji)
	return nil
}

// verifyTelegram checks the bot token when one was supplied. A provider
// rejection is fatal (handled by the caller via ErrInvalidToken); an
// unreachable provider degrades to provisioning without the binding.
func (w *Workflow) verifyTelegram(ctx context.Context, st *runState) error {
	token := strings.TrimSpace(st.req.TelegramToken)
	if token == "" {
		return nil
	}
	username, err := w.cfg.Verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, telegram.ErrInvalidToken) {
			return err
		}
		return fmt.Errorf("telegram unreachable, skipping channel binding: %w", err)
	}
	st.telegramBound = true
	st.telegramUsername = username
	st.result.HasTelegram = true
	st.result.TelegramUsername = username
	st.logf("telegram bot verified: @%s", username)
	return nil
}

// updateGatewayConfig applies every config mutation in one read-modify-write
// against the shared gateway config. The gateway's port and auth token are
// captured from the same read for the dashboard step.
func (w *Workflow) updateGatewayConfig(ctx context.Context, st *runState) error {
	main := w.cfg.Settings.Agents.Main
	err := w.cfg.Store.Update(func(doc *gatewayconf.Document) error {
		doc.EnsureAllowAgent(main, st.id)
		doc.SetAllowAgents(st.id, []string{main})
		if st.telegramBound {
			doc.EnsureTelegramAccount(st.id, strings.TrimSpace(st.req.TelegramToken))
			doc.EnsureBinding(st.id, "telegram", st.id)
		}
		doc.EnableAgentToAgent()
		st.port = doc.GatewayPort()
		st.authToken = doc.AuthToken()
		return nil
	})
	if err != nil {
		return fmt.Errorf("gateway config update failed: %w", err)
	}

	if dir := w.cfg.Settings.Gateway.SessionsDir; dir != "" {
		if err := os.MkdirAll(filepath.Join(dir, st.id), 0o755); err != nil {
			return fmt.Errorf("creating session dir: %w", err)
		}
	}
	st.logf("gateway config updated: %s may spawn %s", main, st.id)
	return nil
}

func (w *Workflow) updateDashboard(ctx context.Context, st *runState) error {
	path := w.cfg.DashboardPath
	reg, err := dashboard.Load(path)
	if err != nil {
		return fmt.Errorf("dashboard update failed: %w", err)
	}
	machine, _ := w.cfg.Hostname()
	added := reg.Add(dashboard.Entry{
		ID:        st.id,
		Name:      st.name,
		Emoji:     st.req.Emoji,
		Host:      "127.0.0.1",
		Port:      st.port,
		Token:     st.authToken,
		Workspace: st.workspace,
		Machine:   machine,
	})
	if !added {
		st.logf("dashboard already lists %s", st.id)
		return nil
	}
	if err := dashboard.Save(path, reg); err != nil {
		return fmt.Errorf("dashboard update failed: %w", err)
	}
	st.logf("dashboard registry updated")
	return nil
}

func (w *Workflow) reloadGateway(ctx context.Context, st *runState) error {
	method, err := w.cfg.Notifier.Reload(ctx, st.port, st.authToken)
	if err != nil {
		return fmt.Errorf("gateway not reloaded, restart it manually to pick up %s: %w", st.id, err)
	}
	st.logf("gateway reloading (%s)", method)
	return nil
}
