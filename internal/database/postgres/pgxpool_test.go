package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/database"
)

func TestPoolConfig(t *testing.T) {
	pcfg, err := poolConfig(config.DatabaseConfig{
		DBHost:           "localhost",
		DBPort:           "5432",
		DBName:           "smart_hr",
		DBUser:           "hr",
		DBSSLMode:        "disable",
		PoolMaxConns:     7,
		StatementTimeout: 3 * time.Second,
		ApplicationName:  "smart-hr",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pcfg.MaxConns != 7 {
		t.Fatalf("expected 7 max conns, got %d", pcfg.MaxConns)
	}
	params := pcfg.ConnConfig.RuntimeParams
	if params["timezone"] != "UTC" || params["application_name"] != "smart-hr" || params["statement_timeout"] != "3000" {
		t.Fatalf("unexpected runtime params %v", params)
	}
}

func TestNilPool(t *testing.T) {
	var p *Pool
	if err := p.Ping(context.Background()); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := p.Begin(context.Background()); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}

	empty := &Pool{}
	if err := empty.QueryRow(context.Background(), "SELECT 1").Scan(); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
	if _, err := empty.Exec(context.Background(), "SELECT 1"); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
}

func TestPoolConfig_QuotedPassword(t *testing.T) {
	pcfg, err := poolConfig(config.DatabaseConfig{
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "smart_hr",
		DBUser:     "hr",
		DBPassword: `it's a \secret`,
		DBSSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pcfg.ConnConfig.Password != `it's a \secret` {
		t.Fatalf("password mangled: %q", pcfg.ConnConfig.Password)
	}
}

func TestQuoteDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{" spaced out ", "'spaced out'"},
		{"o'neil", `'o\'neil'`},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := quoteDSN(tt.in); got != tt.want {
			t.Fatalf("quoteDSN(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
