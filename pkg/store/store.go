// Package store persists learner snapshots in a Badger database so that a
// session can be resumed by a later process.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/vito/primal/pkg/learner"
)

// ErrNotFound is returned by Load for unknown session names.
var ErrNotFound = errors.New("session not found")

const prefix = "snapshot/"

// Config describes where and how the store keeps its data.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	// InMemory keeps everything in memory; nothing survives Close.
	InMemory bool

	// SyncWrites fsyncs every write before it is acknowledged.
	SyncWrites bool

	// Logger receives Badger's own logging. Nil silences it.
	Logger *slog.Logger
}

// DefaultConfig is a durable on-disk store at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig is a throwaway store for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger forwards Badger's logging to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Store holds named snapshots.
type Store struct {
	db *badger.DB
}

// Record is a stored snapshot.
type Record struct {
	Name     string           `json:"name"`
	SavedAt  time.Time        `json:"saved_at"`
	Snapshot learner.Snapshot `json:"snapshot"`
}

// Open opens or creates the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, errors.Wrapf(err, "create store directory %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger database")
	}
	return &Store{db: db}, nil
}

// Close flushes and releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores snap under name, replacing any previous snapshot.
func (s *Store) Save(name string, snap learner.Snapshot) error {
	if name == "" {
		return errors.New("session name is required")
	}
	payload, err := json.Marshal(Record{
		Name:     name,
		SavedAt:  time.Now().UTC(),
		Snapshot: snap,
	})
	if err != nil {
		return errors.Wrapf(err, "encode session %s", name)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefix+name), payload)
	})
	return errors.Wrapf(err, "save session %s", name)
}

// Load returns the record saved under name, or ErrNotFound.
func (s *Store) Load(name string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, errors.Wrapf(ErrNotFound, "load %s", name)
	}
	if err != nil {
		return Record{}, errors.Wrapf(err, "load session %s", name)
	}
	return rec, nil
}

// List returns the stored session names in key order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), prefix))
		}
		return nil
	})
	return names, errors.Wrap(err, "list sessions")
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefix + name))
	})
	return errors.Wrapf(err, "delete session %s", name)
}
