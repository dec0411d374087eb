// Package cache stores decoded program trees in SQLite, keyed by the SHA-256
// of the source document, so repeated runs of the same program skip XML
// decoding.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/sol25/compiler"
)

var log = commonlog.GetLogger("sol25.cache")

// Store wraps a SQLite database of CBOR-encoded program trees.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS programs (
		key TEXT PRIMARY KEY,
		tree BLOB NOT NULL,
		nodes INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}

// Key returns the cache key for a source document read in format. The same
// bytes decoded as XML and as CBOR are different entries.
func Key(format string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the tree stored under key. ok is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (tree *compiler.Node, ok bool, err error) {
	var data []byte
	err = s.db.QueryRowContext(ctx, "SELECT tree FROM programs WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query program %s: %w", key, err)
	}
	tree, err = compiler.UnmarshalTree(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached program %s: %w", key, err)
	}
	return tree, true, nil
}

// Put stores tree under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, tree *compiler.Node) error {
	data, err := compiler.MarshalTree(tree)
	if err != nil {
		return fmt.Errorf("encode program %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO programs (key, tree, nodes, created_at) VALUES (?, ?, ?, ?)",
		key, data, tree.Count(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save program %s: %w", key, err)
	}
	return nil
}

// Len returns the number of cached programs.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM programs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count programs: %w", err)
	}
	return n, nil
}

// Load returns the tree for source in format, decoding it with decode on a
// miss and storing the result. Decode failures are returned unchanged and
// not cached.
func (s *Store) Load(ctx context.Context, format string, source []byte, decode func([]byte) (*compiler.Node, error)) (*compiler.Node, error) {
	key := Key(format, source)
	tree, ok, err := s.Get(ctx, key)
	if err != nil {
		// A damaged entry is replaced below.
		log.Warningf("cache entry %s unreadable: %s", key[:12], err)
	}
	if ok {
		log.Debugf("cache hit %s (%d nodes)", key[:12], tree.Count())
		return tree, nil
	}

	tree, err = decode(source)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, key, tree); err != nil {
		return nil, err
	}
	log.Debugf("cache miss %s, stored %d nodes", key[:12], tree.Count())
	return tree, nil
}
