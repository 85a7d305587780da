package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	domainerrors "authorsite/internal/errors"
	"authorsite/internal/slug"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetEntry returns the id and slug of the book with the given id. Anything
// other than exactly one matching row is reported as not found.
func (s *Service) GetEntry(ctx context.Context, id string) (Entry, error) {
	if id == "" {
		return Entry{}, domainerrors.Validation("id is required")
	}
	e, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) || errors.Is(err, ErrTooManyRows) {
			return Entry{}, domainerrors.NotFound("book " + id + " not found")
		}
		return Entry{}, domainerrors.Store("get book entry", err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Book, int, error) {
	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, domainerrors.Store("list books", err)
	}
	return books, total, nil
}

// GetByPath resolves a "<slug>-<shortId>" segment to its book. The short id
// must be a prefix of the stored id.
func (s *Service) GetByPath(ctx context.Context, path string) (Book, error) {
	bookSlug, shortID, ok := slug.SplitShortID(path)
	if !ok || !slug.Valid(bookSlug) {
		return Book{}, domainerrors.NotFound("book " + path + " not found")
	}

	b, err := s.repo.GetBySlug(ctx, bookSlug)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Book{}, domainerrors.NotFound("book " + path + " not found")
		}
		return Book{}, domainerrors.Store("get book", err)
	}
	if slug.ShortID(b.ID) != shortID {
		return Book{}, domainerrors.NotFound("book " + path + " not found")
	}
	return b, nil
}

// Create stores a new book under the slug generated from its title.
func (s *Service) Create(ctx context.Context, nb NewBook) (Book, error) {
	b := Book{
		Title:         strings.TrimSpace(nb.Title),
		Author:        strings.TrimSpace(nb.Author),
		Description:   strings.TrimSpace(nb.Description),
		CoverImageURL: strings.TrimSpace(nb.CoverImageURL),
	}
	b.Slug = slug.Generate(b.Title)
	if b.Slug == "" {
		return Book{}, domainerrors.ValidationWithDetails("invalid title", map[string]string{
			"title": "must contain at least one letter or digit",
		})
	}
	if nb.PublishedDate != "" {
		d, err := time.Parse(time.DateOnly, nb.PublishedDate)
		if err != nil {
			return Book{}, domainerrors.ValidationWithDetails("invalid published date", map[string]string{
				"publishedDate": "must be a date in 2006-01-02 format",
			})
		}
		b.PublishedDate = &d
	}

	if err := s.repo.Insert(ctx, &b); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return Book{}, domainerrors.ValidationWithDetails("duplicate slug", map[string]string{
				"title": "another book already uses the slug " + b.Slug,
			})
		}
		return Book{}, domainerrors.Store("create book", err)
	}
	return b, nil
}
