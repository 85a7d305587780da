package upcoming

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_store.go -package=upcoming

// ErrNoRows is returned by a Store when an exactly-one read matches nothing.
var ErrNoRows = errors.New("upcoming: no rows in result set")

// Row is the upcoming_books row as the store returns it. Every column is
// nullable here; the mapper decides which nulls are acceptable.
type Row struct {
	ID                  *string    `db:"id"`
	Title               *string    `db:"title"`
	Author              *string    `db:"author"`
	Description         *string    `db:"description"`
	CoverImageURL       *string    `db:"cover_image_url"`
	ExpectedReleaseDate *time.Time `db:"expected_release_date"`
	PreorderURL         *string    `db:"preorder_url"`
	CreatedAt           *time.Time `db:"created_at"`
	UpdatedAt           *time.Time `db:"updated_at"`
}

// Columns holds column values for a write, keyed by store column name.
// A nil value writes NULL.
type Columns map[string]any

// Store is the row-store contract for the upcoming_books collection.
type Store interface {
	// SelectAll returns every row ordered by expected_release_date ascending.
	SelectAll(ctx context.Context) ([]Row, error)
	// SelectOne returns the row with id, ErrNoRows if none matches.
	SelectOne(ctx context.Context, id string) (Row, error)
	// Insert writes one row and returns its store-assigned id.
	Insert(ctx context.Context, cols Columns) (string, error)
	// Update writes cols to the row with id and reports the rows affected.
	Update(ctx context.Context, id string, cols Columns) (int64, error)
	// Delete removes the row with id and reports the rows affected.
	Delete(ctx context.Context, id string) (int64, error)
}
