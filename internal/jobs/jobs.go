// Package jobs serves job posting configuration to the application engine.
// Posting CRUD is owned by a separate administrative system; this directory
// only reads.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/types"
)

// Directory is a read-only, in-memory job configuration catalog.
type Directory struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]types.JobConfig
}

// NewDirectory builds a directory from the given configurations.
func NewDirectory(configs ...types.JobConfig) *Directory {
	d := &Directory{jobs: make(map[uuid.UUID]types.JobConfig, len(configs))}
	for _, cfg := range configs {
		d.jobs[cfg.ID] = cfg
	}
	return d
}

// LoadDirectory reads a JSON file containing an array of job configurations.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file %s: %w", path, err)
	}

	var configs []types.JobConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse jobs file %s: %w", path, err)
	}
	for i, cfg := range configs {
		if cfg.ID == uuid.Nil {
			return nil, fmt.Errorf("jobs file %s: entry %d has no id", path, i)
		}
	}

	return NewDirectory(configs...), nil
}

// JobConfig returns the configuration for a posting.
func (d *Directory) JobConfig(ctx context.Context, jobID uuid.UUID) (types.JobConfig, error) {
	d.mu.RLock()
	cfg, ok := d.jobs[jobID]
	d.mu.RUnlock()
	if !ok {
		return types.JobConfig{}, apperr.New(apperr.CodeNotFound, fmt.Sprintf("job %s not found", jobID), nil)
	}
	return cfg, nil
}

// All returns every configured posting, for listing endpoints.
func (d *Directory) All() []types.JobConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]types.JobConfig, 0, len(d.jobs))
	for _, cfg := range d.jobs {
		out = append(out, cfg)
	}
	return out
}
