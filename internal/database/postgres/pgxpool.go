package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Pool adapts pgxpool to database.DB. pgx.Rows and pgx.Row already satisfy
// database.Rows and database.Row, so results pass through unwrapped.
type Pool struct {
	conn
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping %s:%s/%s: %w", cfg.DBHost, cfg.DBPort, cfg.DBName, err)
	}

	return &Pool{conn: conn{q: p}, pool: p, sqlDB: stdlib.OpenDBFromPool(p)}, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pairs := [][2]string{
		{"host", cfg.DBHost},
		{"port", cfg.DBPort},
		{"user", cfg.DBUser},
		{"password", cfg.DBPassword},
		{"dbname", cfg.DBName},
		{"sslmode", cfg.DBSSLMode},
	}
	var dsn strings.Builder
	for _, kv := range pairs {
		if strings.TrimSpace(kv[1]) == "" {
			continue
		}
		fmt.Fprintf(&dsn, "%s=%s ", kv[0], quoteDSN(kv[1]))
	}

	pcfg, err := pgxpool.ParseConfig(strings.TrimSpace(dsn.String()))
	if err != nil {
		return nil, err
	}

	setIf(&pcfg.ConnConfig.ConnectTimeout, cfg.ConnectTimeout)
	setIf(&pcfg.MaxConnLifetime, cfg.PoolMaxConnLifetime)
	setIf(&pcfg.MaxConnIdleTime, cfg.PoolMaxConnIdleTime)
	setIf(&pcfg.HealthCheckPeriod, cfg.PoolHealthCheckPeriod)
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}
	if cfg.PoolMinConns > 0 {
		pcfg.MinConns = cfg.PoolMinConns
	}

	// Sessions run in UTC so timestamps in reports never depend on the server.
	params := pcfg.ConnConfig.RuntimeParams
	params["timezone"] = "UTC"
	if name := strings.TrimSpace(cfg.ApplicationName); name != "" {
		params["application_name"] = name
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return pcfg, nil
}

func setIf(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// quoteDSN quotes a keyword/value DSN value so passwords with spaces or
// quotes survive parsing.
func quoteDSN(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
	return "'" + v + "'"
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return database.ErrNilDB
	}
	return p.pool.Ping(ctx)
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	if p.sqlDB != nil {
		_ = p.sqlDB.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	if p == nil || p.pool == nil {
		return nil, database.ErrNilDB
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return txConn{conn: conn{q: tx}, tx: tx}, nil
}

func (p *Pool) SQLDB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.sqlDB
}

// pgxQuerier is the statement surface shared by *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type conn struct {
	q pgxQuerier
}

func (c conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if c.q == nil {
		return 0, database.ErrNilDB
	}
	tag, err := c.q.Exec(ctx, query, args...)
	return tag.RowsAffected(), err
}

func (c conn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if c.q == nil {
		return nil, database.ErrNilDB
	}
	return c.q.Query(ctx, query, args...)
}

func (c conn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if c.q == nil {
		return nilRow{}
	}
	return c.q.QueryRow(ctx, query, args...)
}

type txConn struct {
	conn
	tx pgx.Tx
}

func (t txConn) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t txConn) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

type nilRow struct{}

func (nilRow) Scan(...any) error { return database.ErrNilDB }
