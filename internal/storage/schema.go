package storage

// schemaSQL holds the metrics schema. Statements are idempotent so the
// schema can be applied on every open.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS operation_metrics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    operation TEXT NOT NULL,
    result_count INTEGER NOT NULL DEFAULT 0,
    returned_count INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    error_code TEXT NOT NULL DEFAULT '',
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_operation_metrics_operation
    ON operation_metrics(operation);

CREATE INDEX IF NOT EXISTS idx_operation_metrics_recorded_at
    ON operation_metrics(recorded_at);
`
