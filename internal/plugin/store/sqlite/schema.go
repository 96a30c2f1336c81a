package sqlite

// schemaSQL creates the record table and its lookup indexes. Executed by the
// migrator; idempotent so it can run at every startup.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS memory_records (
    key        TEXT PRIMARY KEY NOT NULL,
    value      TEXT NOT NULL,
    category   TEXT NOT NULL DEFAULT 'general',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    sync_state TEXT NOT NULL DEFAULT 'unsynced'
);

CREATE INDEX IF NOT EXISTS idx_memory_records_category ON memory_records(category);
CREATE INDEX IF NOT EXISTS idx_memory_records_updated_at ON memory_records(updated_at);
CREATE INDEX IF NOT EXISTS idx_memory_records_sync_state ON memory_records(sync_state);
`
