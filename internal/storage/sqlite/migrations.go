package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS rooms (
    code TEXT PRIMARY KEY,
    total_money INTEGER NOT NULL,
    items TEXT NOT NULL DEFAULT '[]',
    money TEXT NOT NULL DEFAULT '[]',
    properties TEXT NOT NULL DEFAULT '[]',
    cards TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    room_code TEXT NOT NULL,
    name TEXT NOT NULL,
    balance INTEGER NOT NULL,
    slot INTEGER NOT NULL,
    PRIMARY KEY (room_code, slot),
    FOREIGN KEY (room_code) REFERENCES rooms(code) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL,
    from_player TEXT NOT NULL,
    to_player TEXT NOT NULL,
    amount INTEGER NOT NULL,
    note TEXT,
    settled INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (room_code) REFERENCES rooms(code) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL,
    ts INTEGER NOT NULL,
    from_player TEXT NOT NULL,
    to_player TEXT NOT NULL,
    amount INTEGER NOT NULL,
    note TEXT,
    FOREIGN KEY (room_code) REFERENCES rooms(code) ON DELETE CASCADE
);

-- Open slots share the empty name, so uniqueness only applies to named players.
CREATE UNIQUE INDEX IF NOT EXISTS idx_players_room_name ON players(room_code, name) WHERE name != '';
CREATE INDEX IF NOT EXISTS idx_debts_room_code ON debts(room_code);
CREATE INDEX IF NOT EXISTS idx_transactions_room_code ON transactions(room_code);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
