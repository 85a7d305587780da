package upcoming

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// tickingClock advances one second per call so successive stamps are ordered.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// memStore is an in-memory Store with the same contract as PostgresStore.
type memStore struct {
	mu    sync.Mutex
	rows  map[string]Row
	order []string
	clock func() time.Time
}

func newMemStore(clock func() time.Time) *memStore {
	return &memStore{rows: map[string]Row{}, clock: clock}
}

func (m *memStore) SelectAll(_ context.Context) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, 0, len(m.order))
	for _, id := range m.order {
		if row, ok := m.rows[id]; ok {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedReleaseDate.Before(*out[j].ExpectedReleaseDate)
	})
	return out, nil
}

func (m *memStore) SelectOne(_ context.Context, id string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return Row{}, ErrNoRows
	}
	return row, nil
}

func (m *memStore) Insert(_ context.Context, cols Columns) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	now := m.clock()
	row := Row{ID: &id, CreatedAt: &now, UpdatedAt: &now}
	if err := applyColumns(&row, cols); err != nil {
		return "", err
	}
	m.rows[id] = row
	m.order = append(m.order, id)
	return id, nil
}

func (m *memStore) Update(_ context.Context, id string, cols Columns) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return 0, nil
	}
	if err := applyColumns(&row, cols); err != nil {
		return 0, err
	}
	m.rows[id] = row
	return 1, nil
}

func (m *memStore) Delete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func applyColumns(row *Row, cols Columns) error {
	for name, v := range cols {
		switch name {
		case colTitle:
			row.Title = textValue(v)
		case colAuthor:
			row.Author = textValue(v)
		case colDescription:
			row.Description = textValue(v)
		case colCoverImageURL:
			row.CoverImageURL = textValue(v)
		case colPreorderURL:
			row.PreorderURL = textValue(v)
		case colExpectedReleaseDate:
			t := v.(time.Time)
			row.ExpectedReleaseDate = &t
		case colUpdatedAt:
			t := v.(time.Time)
			row.UpdatedAt = &t
		default:
			return fmt.Errorf("column %q is not writable", name)
		}
	}
	return nil
}

func textValue(v any) *string {
	switch s := v.(type) {
	case string:
		return &s
	case *string:
		if s == nil {
			return nil
		}
		c := *s
		return &c
	default:
		panic(fmt.Sprintf("unexpected text value %T", v))
	}
}
