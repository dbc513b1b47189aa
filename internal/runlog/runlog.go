// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package runlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/basketrules/internal/config"
	"github.com/tomtom215/basketrules/internal/logging"
)

// Key prefixes for BadgerDB storage
const (
	runKeyPrefix   = "run:"
	runIDKeyPrefix = "run_id:"
)

// Run triggers.
const (
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
	TriggerCLI      = "cli"
)

var (
	// ErrRunNotFound is returned by Get for an unknown run ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("run log is closed")
)

// Run is one mining run as recorded after it finished.
type Run struct {
	ID            string    `json:"id"`
	Trigger       string    `json:"trigger"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	MinSupport    float64   `json:"min_support"`
	MinConfidence float64   `json:"min_confidence"`
	Transactions  int       `json:"transactions"`
	Items         int       `json:"items"`
	Itemsets      int       `json:"itemsets"`
	Rules         int       `json:"rules"`
	Persisted     bool      `json:"persisted"`
	Error         string    `json:"error,omitempty"`
}

// Duration is FinishedAt - StartedAt.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the run completed without error.
func (r *Run) Succeeded() bool {
	return r.Error == ""
}

// Log is a BadgerDB-backed run history.
type Log struct {
	db        *badger.DB
	retention int
	closed    atomic.Bool
}

// Open opens the run log described by cfg.
func Open(cfg config.StoreConfig) (*Log, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create run log directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("retention", cfg.Retention).
		Msg("Run log opened")

	return &Log{db: db, retention: cfg.Retention}, nil
}

// Close closes the underlying BadgerDB. It is safe to call more than once.
func (l *Log) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.db.Close()
}

func (l *Log) checkNotClosed() error {
	if l.closed.Load() {
		return ErrClosed
	}
	return nil
}

// runKey builds the primary key; zero padding keeps byte order equal to
// time order.
func runKey(startedAt time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", runKeyPrefix, startedAt.UnixNano(), id))
}

// Record stores run, assigning an ID when empty, then prunes history beyond
// the retention limit.
func (l *Log) Record(ctx context.Context, run *Run) error {
	if err := l.checkNotClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	key := runKey(run.StartedAt, run.ID)
	err = l.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set run: %w", err)
		}
		if err := txn.Set([]byte(runIDKeyPrefix+run.ID), key); err != nil {
			return fmt.Errorf("set run id mapping: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if l.retention > 0 {
		if _, err := l.Prune(ctx, l.retention); err != nil {
			logging.Warn().Err(err).Msg("Failed to prune run log")
		}
	}
	return nil
}

// Get returns the run with the given ID.
func (l *Log) Get(ctx context.Context, id string) (*Run, error) {
	if err := l.checkNotClosed(); err != nil {
		return nil, err
	}

	var run Run
	err := l.db.View(func(txn *badger.Txn) error {
		idItem, err := txn.Get([]byte(runIDKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRunNotFound
		}
		if err != nil {
			return fmt.Errorf("get run id mapping: %w", err)
		}
		key, err := idItem.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read run id mapping: %w", err)
		}

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRunNotFound
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all runs.
func (l *Log) List(ctx context.Context, limit int) ([]*Run, error) {
	if err := l.checkNotClosed(); err != nil {
		return nil, err
	}

	runs := []*Run{}
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		seek := append([]byte(runKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			var run Run
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Run log failed to unmarshal entry")
				continue
			}
			runs = append(runs, &run)
			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recent run, or nil when none was recorded.
func (l *Log) Latest(ctx context.Context) (*Run, error) {
	runs, err := l.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// Prune deletes all but the keep most recent runs and returns how many were
// removed.
func (l *Log) Prune(ctx context.Context, keep int) (int, error) {
	if err := l.checkNotClosed(); err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}

	var removed int
	err := l.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)

		// Collect keys to delete (can't delete while iterating)
		var keysToDelete [][]byte
		seen := 0
		prefix := []byte(runKeyPrefix)
		seek := append([]byte(runKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			seen++
			if seen <= keep {
				continue
			}
			keysToDelete = append(keysToDelete, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keysToDelete {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
			if err := txn.Delete([]byte(runIDKeyPrefix + runIDFromKey(key))); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

// runIDFromKey extracts the run ID from a primary key.
func runIDFromKey(key []byte) string {
	// run:<20 digits>:<id>
	const idOffset = len(runKeyPrefix) + 20 + 1
	if len(key) <= idOffset {
		return ""
	}
	return string(key[idOffset:])
}
