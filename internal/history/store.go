// Package history persists saved searches in a local SQLite database.
//
// The database uses the pure-Go modernc.org/sqlite driver. Writers take a
// file lock next to the database so that a Save and its pruning step are
// not interleaved with another amanels process.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/sequence"
)

// DefaultMaxEntries is how many records Save keeps when no limit is set.
const DefaultMaxEntries = 500

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	corpus_path TEXT NOT NULL,
	language    TEXT NOT NULL,
	options     TEXT NOT NULL,
	terms       TEXT NOT NULL,
	hits        TEXT NOT NULL,
	hit_count   INTEGER NOT NULL,
	status      TEXT NOT NULL,
	duration_ns INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_searches_corpus ON searches(corpus_path);
`

const selectColumns = `id, name, corpus_path, language, options, terms, hits, hit_count, status, duration_ns, created_at`

// Store is a history database.
type Store struct {
	db         *sql.DB
	path       string
	lock       *fileLock
	maxEntries int
	retry      elserrors.RetryConfig
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxEntries caps the number of records kept after each Save.
// Zero or less disables pruning on save.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.maxEntries = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetry sets the backoff used while another process holds the lock.
func WithRetry(cfg elserrors.RetryConfig) Option {
	return func(s *Store) {
		s.retry = cfg
	}
}

// Open opens or creates the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to create history directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to open history database", err)
	}

	// One connection: SQLite has a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, elserrors.New(elserrors.ErrCodeHistoryCorrupt, "failed to configure history database", err).
				WithDetail("path", path).
				WithSuggestion("Move the file aside and run the search again: " + path)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, elserrors.New(elserrors.ErrCodeHistoryCorrupt, "failed to initialize history schema", err).
			WithDetail("path", path)
	}

	s := &Store{
		db:         db,
		path:       path,
		lock:       newFileLock(path),
		maxEntries: DefaultMaxEntries,
		retry:      elserrors.DefaultRetryConfig(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts r, assigning ID and CreatedAt when empty, then prunes to the
// configured maximum. It returns the stored ID.
func (s *Store) Save(ctx context.Context, r *Record) (string, error) {
	if r == nil {
		return "", elserrors.ValidationError("record is required", nil)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	options, err := json.Marshal(r.Options)
	if err != nil {
		return "", elserrors.InternalError("failed to encode options", err)
	}
	terms, err := json.Marshal(r.Terms)
	if err != nil {
		return "", elserrors.InternalError("failed to encode terms", err)
	}
	hits := r.Hits
	if hits == nil {
		hits = []sequence.Hit{}
	}
	hitsJSON, err := json.Marshal(hits)
	if err != nil {
		return "", elserrors.InternalError("failed to encode hits", err)
	}

	if err := s.lock.lock(ctx, s.retry); err != nil {
		return "", err
	}
	defer func() { _ = s.lock.unlock() }()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO searches (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.CorpusPath, r.Language, string(options), string(terms), string(hitsJSON),
		r.HitCount, string(r.Status), int64(r.Duration), r.CreatedAt.UnixNano())
	if err != nil {
		return "", elserrors.New(elserrors.ErrCodeHistoryStore, "failed to save search", err)
	}

	s.logger.Debug("history_saved",
		slog.String("id", r.ID),
		slog.String("corpus", r.CorpusPath),
		slog.Int("hits", r.HitCount))

	if s.maxEntries > 0 {
		if _, err := s.prune(ctx, s.maxEntries); err != nil {
			return r.ID, err
		}
	}
	return r.ID, nil
}

// Get returns the record whose ID equals or starts with id. A prefix that
// matches several records is an error.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, elserrors.ValidationError("history id is required", nil)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM searches WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return nil, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to query history", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, notFound(id)
	case 1:
		return records[0], nil
	default:
		for _, r := range records {
			if r.ID == id {
				return r, nil
			}
		}
		return nil, elserrors.ValidationError(fmt.Sprintf("history id %q is ambiguous", id), nil).
			WithSuggestion("Use more characters of the id")
	}
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	query := `SELECT ` + selectColumns + ` FROM searches`
	var args []any
	if opts.Corpus != "" {
		query += ` WHERE corpus_path = ?`
		args = append(args, opts.Corpus)
	}
	query += ` ORDER BY created_at DESC, id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to list history", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searches`).Scan(&n); err != nil {
		return 0, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to count history", err)
	}
	return n, nil
}

// Delete removes the record with the given full or prefix ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.lock.lock(ctx, s.retry); err != nil {
		return err
	}
	defer func() { _ = s.lock.unlock() }()

	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, r.ID)
	if err != nil {
		return elserrors.New(elserrors.ErrCodeHistoryStore, "failed to delete search", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	s.logger.Debug("history_deleted", slog.String("id", r.ID))
	return nil
}

// Prune keeps the newest keep records and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, elserrors.ValidationError("keep must not be negative", nil)
	}

	if err := s.lock.lock(ctx, s.retry); err != nil {
		return 0, err
	}
	defer func() { _ = s.lock.unlock() }()

	return s.prune(ctx, keep)
}

// prune must be called with the lock held.
func (s *Store) prune(ctx context.Context, keep int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM searches
		WHERE id NOT IN (
			SELECT id FROM searches
			ORDER BY created_at DESC, id
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to prune history", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info("history_pruned", slog.Int64("removed", n), slog.Int("kept", keep))
	}
	return int(n), nil
}

func scanRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		var (
			r                     Record
			options, terms, hits  string
			status                string
			durationNS, createdNS int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.CorpusPath, &r.Language, &options, &terms, &hits,
			&r.HitCount, &status, &durationNS, &createdNS); err != nil {
			return nil, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to read history row", err)
		}

		if err := errors.Join(
			json.Unmarshal([]byte(options), &r.Options),
			json.Unmarshal([]byte(terms), &r.Terms),
			json.Unmarshal([]byte(hits), &r.Hits),
		); err != nil {
			return nil, elserrors.New(elserrors.ErrCodeHistoryCorrupt, "history row is not valid", err).
				WithDetail("id", r.ID)
		}
		r.Status = sequence.Status(status)
		r.Duration = time.Duration(durationNS)
		r.CreatedAt = time.Unix(0, createdNS).UTC()
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, elserrors.New(elserrors.ErrCodeHistoryStore, "failed to read history", err)
	}
	return records, nil
}

func notFound(id string) error {
	return elserrors.New(elserrors.ErrCodeEntryNotFound, fmt.Sprintf("no saved search with id %q", id), nil).
		WithSuggestion("Run 'amanels history list' to see saved searches")
}

// escapeLike makes id safe inside a LIKE pattern. IDs are UUIDs, so only
// the wildcard characters need handling.
func escapeLike(id string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(id)
}
