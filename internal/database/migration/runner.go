package migration

import (
	"cmp"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// lockKey serializes concurrent migrators across server replicas.
const lockKey int64 = 582014377

// Runner applies V<version>__<name>.sql files in version order. FS takes
// precedence over Dir; the binary ships its schema through FS.
type Runner struct {
	Dir    string
	FS     fs.FS
	Logger *log.Logger
}

func (r Runner) load() ([]Migration, error) {
	fsys := r.FS
	if fsys == nil {
		dir := strings.TrimSpace(r.Dir)
		if dir == "" {
			exe, err := os.Executable()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(filepath.Dir(exe), "migrations")
		}
		fsys = os.DirFS(dir)
	}
	return LoadMigrations(fsys)
}

// Pending lists the migrations not yet recorded in schema_migrations without
// applying anything.
func (r Runner) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if db == nil {
		return nil, errNilDB
	}
	migs, err := r.load()
	if err != nil || len(migs) == 0 {
		return nil, err
	}
	applied, err := appliedChecksums(ctx, db)
	if err != nil {
		return nil, err
	}
	return plan(migs, applied)
}

// Run applies every pending migration, each in its own transaction. The
// advisory lock is session scoped, so the whole run holds one connection.
func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errNilDB
	}
	migs, err := r.load()
	if err != nil || len(migs) == 0 {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	applied, err := appliedChecksums(ctx, conn)
	if err != nil {
		return err
	}
	pending, err := plan(migs, applied)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		r.logf("[Migrate] schema up to date versions=%d", len(migs))
		return nil
	}

	for _, m := range pending {
		start := time.Now()
		if err := apply(ctx, conn, m); err != nil {
			return err
		}
		r.logf("[Migrate] applied version=%d name=%s elapsed=%s", m.Version, m.Name, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// plan returns the migrations missing from applied, in version order. An
// applied migration whose file changed since is an error.
func plan(migs []Migration, applied map[int64]string) ([]Migration, error) {
	pending := make([]Migration, 0, len(migs))
	for _, m := range migs {
		sum, ok := applied[m.Version]
		switch {
		case !ok:
			pending = append(pending, m)
		case sum != m.Checksum:
			return nil, fmt.Errorf("migration checksum mismatch: version=%d name=%s", m.Version, m.Name)
		}
	}
	return pending, nil
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

var errNilDB = errors.New("migration: nil db")

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// LoadMigrations reads V<version>__<name>.sql files from the root of fsys.
// Other files are ignored; the checksum covers the trimmed SQL.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "V*__*.sql")
	if err != nil {
		return nil, err
	}

	migs := make([]Migration, 0, len(names))
	for _, name := range names {
		version, label, ok := parseFilename(name)
		if !ok {
			continue
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return nil, fmt.Errorf("empty migration %s", name)
		}
		sum := sha256.Sum256([]byte(text))
		migs = append(migs, Migration{
			Version:  version,
			Name:     label,
			Filename: name,
			SQL:      text,
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(migs, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d (%s, %s)", migs[i].Version, migs[i-1].Filename, migs[i].Filename)
		}
	}
	return migs, nil
}

func parseFilename(name string) (int64, string, bool) {
	base := strings.TrimSuffix(path.Base(name), ".sql")
	rest, ok := strings.CutPrefix(base, "V")
	if !ok {
		return 0, "", false
	}
	num, label, ok := strings.Cut(rest, "__")
	if !ok || label == "" {
		return 0, "", false
	}
	v, err := strconv.ParseInt(num, 10, 64)
	if err != nil || v <= 0 {
		return 0, "", false
	}
	return v, label, true
}

// sqlConn is satisfied by both *sql.DB and *sql.Conn.
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func appliedChecksums(ctx context.Context, db sqlConn) (map[int64]string, error) {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int64]string)
	for rows.Next() {
		var (
			v   int64
			sum string
		)
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		applied[v] = sum
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, db sqlConn, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return fmt.Errorf("record %s: %w", m.Filename, err)
	}
	return tx.Commit()
}
