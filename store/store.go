// Package store persists finished runs to MySQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
)

const (
	createRunsQuery = "" +
		"CREATE TABLE IF NOT EXISTS runs (" +
		"run_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY" +
		", seed BIGINT UNSIGNED NOT NULL, n BIGINT UNSIGNED NOT NULL, workers INT NOT NULL" +
		", inside BIGINT UNSIGNED NOT NULL, estimate DOUBLE NOT NULL, error DOUBLE NOT NULL" +
		", elapsed_ns BIGINT NOT NULL, reported_time DATETIME NOT NULL" +
		", insert_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP" +
		", INDEX runs_seed (seed))"

	insertRunQuery = "" +
		"INSERT INTO runs (seed, n, workers, inside, estimate, error, elapsed_ns, reported_time" +
		") VALUES (?, ?, ?, ?, ?, ?, ?, FROM_UNIXTIME(?))"

	selectRunsQuery = "" +
		"SELECT run_id, seed, n, workers, inside, estimate, error, elapsed_ns, reported_time, insert_time" +
		" FROM runs"
)

// Run is a stored result.
type Run struct {
	RunID int64
	common.Result

	ReportedTime time.Time
	InsertTime   time.Time
}

type Store struct {
	db *sql.DB
}

func NewMySQLConfig(cfg *config.Config) *mysql.Config {
	dbConfig := mysql.NewConfig()

	dbConfig.User = cfg.DBUser
	dbConfig.Passwd = cfg.DBPassword
	dbConfig.Addr = cfg.DBAddress
	dbConfig.DBName = cfg.DBName
	dbConfig.Collation = "utf8mb4_general_ci"
	dbConfig.Net = "tcp"
	dbConfig.AllowNativePasswords = true
	dbConfig.ParseTime = true
	dbConfig.Loc = time.UTC

	return dbConfig
}

// Open does not contact the server; the first query does.
func Open(cfg *config.Config) (*Store, error) {
	db, err := sql.Open("mysql", NewMySQLConfig(cfg).FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}

	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createRunsQuery); err != nil {
		return fmt.Errorf("creating runs table: %w", err)
	}

	return nil
}

// InsertResult stores r and returns its run id.
func (s *Store) InsertResult(ctx context.Context, r common.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var stmt *sql.Stmt
	if stmt, err = tx.PrepareContext(ctx, insertRunQuery); err != nil {
		return 0, err
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		r.Seed, r.N, r.Workers,
		r.Inside, r.Estimate, r.Error,
		r.ElapsedNanos, r.Timestamp,
	)
	if err != nil {
		return 0, err
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return runID, tx.Commit()
}

// Runs lists stored runs in insertion order, optionally only those with the
// given seed.
func (s *Store) Runs(ctx context.Context, seed *uint64) ([]Run, error) {
	query := selectRunsQuery
	var args []interface{}

	if seed != nil {
		query += " WHERE seed=?"
		args = append(args, *seed)
	}

	query += " ORDER BY run_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for i := 0; rows.Next(); i++ {
		var run Run

		if err = rows.Scan(
			&run.RunID, &run.Seed, &run.N, &run.Workers,
			&run.Inside, &run.Estimate, &run.Error,
			&run.ElapsedNanos, &run.ReportedTime, &run.InsertTime,
		); err != nil {
			return nil, fmt.Errorf("reading row %d: %w", i, err)
		}

		run.Timestamp = run.ReportedTime.Unix()
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
