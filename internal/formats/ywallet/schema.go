package ywallet

// MaxSchemaVersion is the newest zec.db schema this adapter reads and the one it writes.
const MaxSchemaVersion = 1

const walletSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
	id INTEGER PRIMARY KEY NOT NULL,
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS accounts (
	id_account INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	seed TEXT,
	aindex INTEGER NOT NULL,
	sk TEXT,
	ivk TEXT NOT NULL UNIQUE,
	address TEXT NOT NULL
);
`

const (
	selectSchemaVersion = `SELECT version FROM schema_version WHERE id = 1`
	insertSchemaVersion = `INSERT INTO schema_version (id, version) VALUES (1, ?)`
	selectAccounts      = `SELECT id_account, name, seed, aindex, sk, ivk, address FROM accounts ORDER BY id_account`
	insertAccount       = `INSERT INTO accounts (id_account, name, seed, aindex, sk, ivk, address)
		VALUES (:id_account, :name, :seed, :aindex, :sk, :ivk, :address)`
)

type accountRow struct {
	ID      int64   `db:"id_account"`
	Name    string  `db:"name"`
	Seed    *string `db:"seed"`
	AIndex  uint32  `db:"aindex"`
	SK      *string `db:"sk"`
	IVK     string  `db:"ivk"`
	Address string  `db:"address"`
}
