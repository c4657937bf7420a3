package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-statestore/internal/hydrate"
	"github.com/goliatone/go-statestore/value"
)

const memoryPath = ":memory:"

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS state_snapshots (
  ref_key     TEXT PRIMARY KEY,
  snapshot_id TEXT NOT NULL,
  etag        TEXT NOT NULL,
  payload     TEXT NOT NULL,
  updated_at  INTEGER NOT NULL
)`

// SQLStore persists snapshots as JSON rows in SQLite.
type SQLStore struct {
	sqlDB   *sql.DB
	decoder *hydrate.Decoder
	now     func() time.Time
}

// SQLOption configures an SQLStore.
type SQLOption func(*SQLStore)

// WithDecoder replaces the decoder used to hydrate stored payloads.
func WithDecoder(decoder *hydrate.Decoder) SQLOption {
	return func(s *SQLStore) {
		if decoder != nil {
			s.decoder = decoder
		}
	}
}

// OpenSQLite opens (or creates) a SQLite snapshot store at path. Use
// ":memory:" for a private in-memory database.
func OpenSQLite(path string, opts ...SQLOption) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot: storage path is required")
	}
	dsn := memoryPath
	if path != memoryPath {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open sqlite db: %w", err)
	}
	if path == memoryPath {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("snapshot: ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createSnapshotsTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("snapshot: create table: %w", err)
	}
	store := &SQLStore{sqlDB: sqlDB, decoder: hydrate.NewDecoder(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Close closes the SQLite handle.
func (s *SQLStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLStore) Load(ctx context.Context, ref Ref) (*value.Map, Meta, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, Meta{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, Meta{}, false, fmt.Errorf("snapshot: storage is not configured")
	}
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	var (
		meta      Meta
		payload   string
		updatedAt int64
	)
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT snapshot_id, etag, payload, updated_at FROM state_snapshots WHERE ref_key = ?`, key)
	if err := row.Scan(&meta.SnapshotID, &meta.ETag, &payload, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Meta{}, false, nil
		}
		return nil, Meta{}, false, fmt.Errorf("snapshot: load %q: %w", key, err)
	}
	meta.UpdatedAt = fromMillis(updatedAt)

	state, err := s.decoder.Decode(hydrate.Context{Name: ref.Name, SnapshotID: meta.SnapshotID}, []byte(payload))
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("snapshot: load %q: %w", key, err)
	}
	return state, meta, true, nil
}

func (s *SQLStore) Save(ctx context.Context, ref Ref, state *value.Map, meta Meta) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Meta{}, fmt.Errorf("snapshot: storage is not configured")
	}
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if state == nil {
		state = value.NewMap()
	}
	payload, err := state.MarshalJSON()
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: encode %q: %w", key, err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: begin save %q: %w", key, err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored Meta
	var updatedAt int64
	err = tx.QueryRowContext(ctx,
		`SELECT snapshot_id, etag, updated_at FROM state_snapshots WHERE ref_key = ?`, key,
	).Scan(&stored.SnapshotID, &stored.ETag, &updatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return Meta{}, fmt.Errorf("snapshot: read etag %q: %w", key, err)
	default:
		stored.UpdatedAt = fromMillis(updatedAt)
		if err := checkETag(meta.ETag, stored.ETag); err != nil {
			return stored, err
		}
	}

	saved := nextMeta(s.now())
	saved.UpdatedAt = fromMillis(toMillis(saved.UpdatedAt))
	_, err = tx.ExecContext(ctx,
		`INSERT INTO state_snapshots (ref_key, snapshot_id, etag, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(ref_key) DO UPDATE SET
		   snapshot_id = excluded.snapshot_id,
		   etag = excluded.etag,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		key, saved.SnapshotID, saved.ETag, string(payload), toMillis(saved.UpdatedAt),
	)
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: save %q: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return Meta{}, fmt.Errorf("snapshot: commit %q: %w", key, err)
	}
	return saved, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
