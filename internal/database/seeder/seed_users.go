package seeder

import (
	"context"
	"fmt"
	"log"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
)

type Account struct {
	Username string
	Password string
	FullName string
	Role     user.Role
}

// UsersSeeder creates the bootstrap accounts. Accounts without a password
// are skipped so no deployment ships a guessable default.
type UsersSeeder struct {
	Accounts []Account
	Logger   *log.Logger
}

func (UsersSeeder) Requires() []Requirement {
	return []Requirement{{Table: "users", Columns: []string{"id", "username", "full_name", "role", "password_hash"}}}
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}

	for _, a := range s.Accounts {
		name := user.NormalizeUsername(a.Username)
		if name == "" || a.Password == "" {
			logger.Printf("[Seeder] skip account username=%q reason=no_password", name)
			continue
		}
		if !a.Role.Valid() {
			return fmt.Errorf("account %s: invalid role %q", name, a.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = db.Exec(
			ctx,
			`INSERT INTO users (id, username, full_name, role, password_hash)
			 VALUES (gen_random_uuid(), $1, $2, $3, $4)
			 ON CONFLICT (username) DO NOTHING`,
			name,
			a.FullName,
			string(a.Role),
			string(hash),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
