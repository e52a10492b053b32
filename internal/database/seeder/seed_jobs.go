package seeder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/job"

	"gopkg.in/yaml.v3"
)

type jobsFile struct {
	Jobs []job.Draft `yaml:"jobs"`
}

var defaultJobs = []job.Draft{
	{Title: "IT Support", Department: "IT Department", Description: "Tech support.", Requirements: []string{"PC Repair"}},
	{Title: "HR Officer", Department: "HR Department", Description: "HR support.", Requirements: []string{"Admin"}},
}

// JobsSeeder inserts the openings listed in File. A missing file falls back
// to the built-in openings.
type JobsSeeder struct {
	File string
}

func (JobsSeeder) Requires() []Requirement {
	return []Requirement{{Table: "jobs", Columns: []string{"id", "title", "department", "description", "requirements"}}}
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	items, err := s.load()
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO jobs (title, department, description, requirements)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (title, department) DO NOTHING`,
				it.Title,
				it.Department,
				it.Description,
				it.Requirements,
			)
			if err != nil {
				return fmt.Errorf("seed job %q: %w", it.Title, err)
			}
		}
		return nil
	})
}

func (s JobsSeeder) load() ([]job.Draft, error) {
	if strings.TrimSpace(s.File) == "" {
		return defaultJobs, nil
	}
	b, err := os.ReadFile(s.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultJobs, nil
		}
		return nil, err
	}
	return ParseJobs(b)
}

func ParseJobs(b []byte) ([]job.Draft, error) {
	var f jobsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse jobs file: %w", err)
	}
	out := make([]job.Draft, 0, len(f.Jobs))
	for i, d := range f.Jobs {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" {
			return nil, fmt.Errorf("jobs[%d]: empty title", i)
		}
		if d.Requirements == nil {
			d.Requirements = []string{}
		}
		out = append(out, d)
	}
	return out, nil
}
