package upcoming

import (
	"context"
	"errors"
	"time"

	domainerrors "authorsite/internal/errors"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return NewServiceWithClock(store, time.Now)
}

// NewServiceWithClock is NewService with an explicit clock for updated_at.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// ListAll returns every preview, earliest expected release first.
func (s *Service) ListAll(ctx context.Context) ([]UpcomingBook, error) {
	rows, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, domainerrors.Store("list upcoming books", err)
	}

	books := make([]UpcomingBook, 0, len(rows))
	for _, row := range rows {
		b, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (UpcomingBook, error) {
	if id == "" {
		return UpcomingBook{}, domainerrors.Validation("id is required")
	}

	row, err := s.store.SelectOne(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return UpcomingBook{}, domainerrors.NotFound("upcoming book " + id + " not found")
		}
		return UpcomingBook{}, domainerrors.Store("get upcoming book", err)
	}
	return fromRow(row)
}

// Create inserts a preview and returns the id assigned by the store.
func (s *Service) Create(ctx context.Context, form FormData) (string, error) {
	cols, err := toColumns(form)
	if err != nil {
		return "", err
	}

	id, err := s.store.Insert(ctx, cols)
	if err != nil {
		return "", domainerrors.Store("create upcoming book", err)
	}
	return id, nil
}

// Update overwrites the preview and refreshes updated_at. An id that matches
// no row is reported as not found.
func (s *Service) Update(ctx context.Context, id string, form FormData) (string, error) {
	if id == "" {
		return "", domainerrors.Validation("id is required")
	}
	cols, err := toColumns(form)
	if err != nil {
		return "", err
	}
	cols[colUpdatedAt] = stamp(s.now())

	affected, err := s.store.Update(ctx, id, cols)
	if err != nil {
		return "", domainerrors.Store("update upcoming book", err)
	}
	if affected == 0 {
		return "", domainerrors.NotFound("upcoming book " + id + " not found")
	}
	return id, nil
}

// Delete removes the preview. Deleting an id that does not exist succeeds.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, domainerrors.Validation("id is required")
	}
	if _, err := s.store.Delete(ctx, id); err != nil {
		return false, domainerrors.Store("delete upcoming book", err)
	}
	return true, nil
}
