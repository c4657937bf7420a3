package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-statestore/value"
)

var ErrETagMismatch = errors.New("snapshot: etag mismatch")

var ErrNotFound = errors.New("snapshot: not found")

// Ref identifies one persisted snapshot.
type Ref struct {
	Name string
}

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "", fmt.Errorf("snapshot: ref name is required")
	}
	return "state/" + name, nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string    `json:"snapshot_id,omitempty"`
	ETag       string    `json:"etag,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Store loads and saves one snapshot per Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (state *value.Map, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, state *value.Map, meta Meta) (Meta, error)
}

// checkETag compares the caller's expectation with the stored ETag.
func checkETag(expected, stored string) error {
	if expected != "" && stored != "" && expected != stored {
		return fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expected, stored)
	}
	return nil
}

// nextMeta stamps a fresh snapshot ID, ETag and timestamp for one save.
func nextMeta(now time.Time) Meta {
	return Meta{
		SnapshotID: uuid.NewString(),
		ETag:       uuid.NewString(),
		UpdatedAt:  now.UTC(),
	}
}
