package runrecord

const schemaVersion = 1

const schema = `
CREATE TABLE schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE runs (
	id          TEXT PRIMARY KEY,
	graph_id    TEXT NOT NULL,
	spec_hash   TEXT NOT NULL,
	scenario    TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	failed_step TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_runs_graph ON runs(graph_id, started_at);

CREATE TABLE resolutions (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	step_text  TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	confidence TEXT NOT NULL,
	selector   TEXT NOT NULL DEFAULT '',
	error      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX idx_resolutions_run ON resolutions(run_id, seq);
`
