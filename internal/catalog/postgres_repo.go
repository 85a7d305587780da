package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockgen -source=postgres_repo.go -destination=mock_repository.go -package=catalog

var (
	// ErrNoRows is returned by repository lookups that match nothing.
	ErrNoRows = errors.New("catalog: no rows")
	// ErrTooManyRows is returned when an exactly-one lookup matches several rows.
	ErrTooManyRows = errors.New("catalog: too many rows")
	// ErrDuplicateSlug is returned by Insert when another book owns the slug.
	ErrDuplicateSlug = errors.New("catalog: duplicate slug")
)

type Repository interface {
	GetEntry(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context, q ListQuery) ([]Book, int, error)
	GetBySlug(ctx context.Context, slug string) (Book, error)
	Insert(ctx context.Context, b *Book) error
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

const bookColumns = `id::text, title, slug, author, description, COALESCE(cover_image_url, ''), published_date, created_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Author, &b.Description, &b.CoverImageURL, &b.PublishedDate, &b.CreatedAt)
	return b, err
}

// GetEntry selects the id/slug projection and requires exactly one row.
// A null slug comes back as the empty string.
func (r *PostgresRepo) GetEntry(ctx context.Context, id string) (Entry, error) {
	if uuid.Validate(id) != nil {
		return Entry{}, ErrNoRows
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id::text, slug FROM books WHERE id = $1`, id)
	if err != nil {
		return Entry{}, fmt.Errorf("select book entry: %w", err)
	}
	entry, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		var s *string
		if err := row.Scan(&e.ID, &s); err != nil {
			return Entry{}, err
		}
		if s != nil {
			e.Slug = *s
		}
		return e, nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNoRows
		}
		if errors.Is(err, pgx.ErrTooManyRows) {
			return Entry{}, ErrTooManyRows
		}
		return Entry{}, fmt.Errorf("scan book entry: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) ([]Book, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	where := ""
	args := []any{}
	if q.Q != "" {
		where = `WHERE title ILIKE $1 ESCAPE '\' OR author ILIKE $1 ESCAPE '\'`
		args = append(args, containsPattern(q.Q))
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books %s", where)
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY title ASC, created_at ASC
		LIMIT $%d OFFSET $%d`,
		bookColumns, where, len(args)+1, len(args)+2)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	rows, err := r.db.Query(ctx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, fmt.Errorf("select books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q literally anywhere.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func (r *PostgresRepo) GetBySlug(ctx context.Context, slug string) (Book, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM books WHERE slug = $1`
	b, err := scanBook(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNoRows
		}
		return Book{}, fmt.Errorf("select book by slug: %w", err)
	}
	return b, nil
}

// Insert stores b and fills in its generated id and created_at.
func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `
		INSERT INTO books (title, slug, author, description, cover_image_url, published_date)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id::text, created_at`

	err := r.db.QueryRow(ctx, query, b.Title, b.Slug, b.Author, b.Description, b.CoverImageURL, b.PublishedDate).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}
