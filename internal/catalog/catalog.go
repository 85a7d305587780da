package catalog

import (
	"time"

	"authorsite/internal/slug"
)

// Entry is the id/slug projection of a book, all the redirect endpoints need.
type Entry struct {
	ID   string
	Slug string
}

type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Author        string     `json:"author"`
	Description   string     `json:"description"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Path is the book's public page, e.g. "/books/magic-forest-abcdefgh".
func (b Book) Path() string {
	return "/books/" + slug.WithShortID(b.Slug, b.ID)
}

// MultimediaPath is the companion multimedia page of the book.
func (b Book) MultimediaPath() string {
	return "/multimedia/" + slug.WithShortID(b.Slug, b.ID)
}

// bookView is the JSON shape served to the site, with derived paths.
type bookView struct {
	Book
	PublishedDate  string `json:"publishedDate,omitempty"`
	Path           string `json:"path"`
	MultimediaPath string `json:"multimediaPath"`
}

func viewOf(b Book) bookView {
	v := bookView{Book: b, Path: b.Path(), MultimediaPath: b.MultimediaPath()}
	if b.PublishedDate != nil {
		v.PublishedDate = b.PublishedDate.Format(time.DateOnly)
	}
	return v
}

// NewBook is the admin write shape for a catalog book.
type NewBook struct {
	Title         string `json:"title" validate:"required,max=300"`
	Author        string `json:"author" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=5000"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,imageref"`
	PublishedDate string `json:"publishedDate" validate:"omitempty,datetime=2006-01-02"`
}

// ListQuery filters and pages the public book list.
type ListQuery struct {
	Q      string
	Limit  int
	Offset int
}
