package sqlite

const schemaSQL = `CREATE TABLE IF NOT EXISTS snapshots (
    resource TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    item_count INTEGER NOT NULL,
    fetched_at TEXT NOT NULL
);`

const (
	upsertSnapshot = `INSERT INTO snapshots (resource, payload, item_count, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(resource) DO UPDATE SET
    payload = excluded.payload,
    item_count = excluded.item_count,
    fetched_at = excluded.fetched_at`

	selectSnapshot = `SELECT resource, payload, item_count, fetched_at FROM snapshots WHERE resource = ?`
	deleteSnapshot = `DELETE FROM snapshots WHERE resource = ?`
	listSnapshots  = `SELECT resource FROM snapshots`
)
