package seeder

import (
	"log"

	"smart-hr/internal/config"
	"smart-hr/internal/domain/user"
)

func Defaults(cfg config.SeedConfig, logger *log.Logger) []Seeder {
	return []Seeder{
		JobsSeeder{File: cfg.JobsFile},
		UsersSeeder{
			Logger: logger,
			Accounts: []Account{
				{Username: cfg.AdminUsername, Password: cfg.AdminPassword, FullName: "Administrator", Role: user.RoleAdmin},
				{Username: cfg.UserUsername, Password: cfg.UserPassword, FullName: "Recruiter", Role: user.RoleUser},
			},
		},
	}
}
