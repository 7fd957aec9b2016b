package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the pool event log to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while the pool writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS membership_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			address   TEXT,
			count     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_membership_ts ON membership_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS withdrawal_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			address       TEXT,
			amount        TEXT,
			balance_after TEXT,
			emergency     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawal_ts ON withdrawal_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS reputation_events (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			target           TEXT,
			like_vote        INTEGER,
			likes            INTEGER,
			dislikes         INTEGER,
			withdrawal_limit INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reputation_ts ON reputation_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS config_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			endpoint  TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS deposit_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			amount        TEXT,
			balance_after TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deposit_ts ON deposit_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			balance        TEXT,
			members        INTEGER,
			total_likes    INTEGER,
			total_dislikes INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_ts ON snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordMembership(evt *MembershipEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO membership_events (timestamp, address, count) VALUES (?,?,?)`,
		time.Now().Unix(), evt.Address, evt.Count,
	)
	return err
}

func (r *SQLiteRecorder) RecordWithdrawal(evt *WithdrawalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO withdrawal_events
		(timestamp, address, amount, balance_after, emergency)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Address, evt.Amount, evt.BalanceAfter, evt.Emergency,
	)
	return err
}

func (r *SQLiteRecorder) RecordReputation(evt *ReputationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO reputation_events
		(timestamp, target, like_vote, likes, dislikes, withdrawal_limit)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Target, evt.Like, evt.Likes, evt.Dislikes, evt.WithdrawalLimit,
	)
	return err
}

func (r *SQLiteRecorder) RecordConfigChange(evt *ConfigChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO config_events (timestamp, endpoint) VALUES (?,?)`,
		time.Now().Unix(), evt.Endpoint,
	)
	return err
}

func (r *SQLiteRecorder) RecordDeposit(evt *DepositEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO deposit_events (timestamp, amount, balance_after) VALUES (?,?,?)`,
		time.Now().Unix(), evt.Amount, evt.BalanceAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(evt *SnapshotEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO snapshots
		(timestamp, balance, members, total_likes, total_dislikes)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Balance, evt.Members, evt.TotalLikes, evt.TotalDislikes,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
