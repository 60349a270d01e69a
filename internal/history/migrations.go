package history

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create runs",
		SQL: `
			CREATE TABLE runs (
				id          TEXT PRIMARY KEY,
				agent_id    TEXT NOT NULL,
				name        TEXT NOT NULL DEFAULT '',
				ok          INTEGER NOT NULL,
				message     TEXT NOT NULL DEFAULT '',
				error       TEXT NOT NULL DEFAULT '',
				log         TEXT NOT NULL DEFAULT '',
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_runs_agent ON runs (agent_id);
			CREATE INDEX idx_runs_created ON runs (created_at);
		`,
	},
}
