// Package recordlog persists the input/output pairs seen by the debugging
// solver decorator so that decisions can be replayed offline.
package recordlog

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pdptw/core/snapshot"
)

// Entry captures one solve.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Solver    string          `json:"solver"`
	Input     snapshot.Record `json:"input"`
	// Output holds one route of parcel ids per vehicle, empty on error.
	Output   [][]uuid.UUID `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Mentions reports whether the parcel with the given id is part of the input
// or output of e.
func (e Entry) Mentions(id uuid.UUID) bool {
	for _, p := range e.Input.Parcels {
		if p.ID == id {
			return true
		}
	}
	for _, r := range e.Output {
		if slices.Contains(r, id) {
			return true
		}
	}
	return false
}

// Query defines filters for retrieving entries. Zero fields match all.
type Query struct {
	Start    time.Time
	End      time.Time
	Solver   string
	ParcelID uuid.UUID
}

// Match reports whether e passes every filter of q.
func (q Query) Match(e Entry) bool {
	if !q.Start.IsZero() && e.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && e.Timestamp.After(q.End) {
		return false
	}
	if q.Solver != "" && e.Solver != q.Solver {
		return false
	}
	if q.ParcelID != uuid.Nil && !e.Mentions(q.ParcelID) {
		return false
	}
	return true
}

// Store persists entries and supports querying.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}

// Config defines settings for record storage and rotation.
type Config struct {
	// Backend selects the store type: "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB enables rotation of JSONL files above this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "solves.db"
		default:
			c.Path = "solves.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must be >= 0")
	}
	return nil
}

// Open returns the store selected by c, nil for the "none" backend.
func Open(c Config) (Store, error) {
	switch c.Backend {
	case "", "none":
		return nil, nil
	case "jsonl":
		if c.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		}
		return NewJSONLStore(c.Path)
	case "sqlite":
		return NewSQLiteStore(c.Path)
	default:
		return nil, fmt.Errorf("unknown backend %s", c.Backend)
	}
}
