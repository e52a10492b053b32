package job

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Department   string    `json:"department"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Embedding    []float32 `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Draft is the writable part of a Job.
type Draft struct {
	Title        string   `json:"title" yaml:"title"`
	Department   string   `json:"department" yaml:"department"`
	Description  string   `json:"description" yaml:"description"`
	Requirements []string `json:"requirements" yaml:"requirements"`
}
