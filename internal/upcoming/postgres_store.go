package upcoming

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `id::text AS id, title, author, description, cover_image_url,
	expected_release_date, preorder_url, created_at, updated_at`

// writable columns; anything else in a Columns map is rejected.
var writableColumns = map[string]bool{
	colTitle:               true,
	colAuthor:              true,
	colDescription:         true,
	colCoverImageURL:       true,
	colExpectedReleaseDate: true,
	colPreorderURL:         true,
	colUpdatedAt:           true,
}

type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *PostgresStore) SelectAll(ctx context.Context) ([]Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + selectColumns + `
		FROM upcoming_books
		ORDER BY expected_release_date ASC, created_at ASC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select upcoming books: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Row])
	if err != nil {
		return nil, fmt.Errorf("scan upcoming books: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SelectOne(ctx context.Context, id string) (Row, error) {
	// ids are uuids; anything else cannot match a row.
	if uuid.Validate(id) != nil {
		return Row{}, ErrNoRows
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + selectColumns + ` FROM upcoming_books WHERE id = $1`
	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return Row{}, fmt.Errorf("select upcoming book: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Row])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrNoRows
		}
		return Row{}, fmt.Errorf("scan upcoming book: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) Insert(ctx context.Context, cols Columns) (string, error) {
	names, args, err := splitColumns(cols)
	if err != nil {
		return "", err
	}

	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`INSERT INTO upcoming_books (%s) VALUES (%s) RETURNING id::text`,
		strings.Join(names, ", "), strings.Join(placeholders, ", "))
	var id string
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("insert upcoming book: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, cols Columns) (int64, error) {
	if uuid.Validate(id) != nil {
		return 0, nil
	}
	names, args, err := splitColumns(cols)
	if err != nil {
		return 0, err
	}

	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = setClause(name, i+1)
	}
	args = append(args, id)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`UPDATE upcoming_books SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update upcoming book: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (int64, error) {
	if uuid.Validate(id) != nil {
		return 0, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM upcoming_books WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete upcoming book: %w", err)
	}
	return tag.RowsAffected(), nil
}

// setClause renders one SET assignment. updated_at never moves backwards or
// stands still, whatever the caller's clock says.
func setClause(name string, n int) string {
	if name == colUpdatedAt {
		return fmt.Sprintf("%s = GREATEST($%d, %s + interval '1 microsecond')", name, n, name)
	}
	return fmt.Sprintf("%s = $%d", name, n)
}

// splitColumns returns column names in a stable order with matching args.
func splitColumns(cols Columns) ([]string, []any, error) {
	if len(cols) == 0 {
		return nil, nil, errors.New("no columns to write")
	}
	names := make([]string, 0, len(cols))
	for name := range cols {
		if !writableColumns[name] {
			return nil, nil, fmt.Errorf("column %q is not writable", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = cols[name]
	}
	return names, args, nil
}
