package upcoming

import (
	"strings"
	"time"

	domainerrors "authorsite/internal/errors"
)

// Store column names.
const (
	colID                  = "id"
	colTitle               = "title"
	colAuthor              = "author"
	colDescription         = "description"
	colCoverImageURL       = "cover_image_url"
	colExpectedReleaseDate = "expected_release_date"
	colPreorderURL         = "preorder_url"
	colCreatedAt           = "created_at"
	colUpdatedAt           = "updated_at"
)

// fieldColumns lists the canonical fields whose store column name differs.
// Any other field is stored under its own name.
var fieldColumns = map[string]string{
	"coverImageUrl":       colCoverImageURL,
	"expectedReleaseDate": colExpectedReleaseDate,
	"preorderUrl":         colPreorderURL,
	"createdAt":           colCreatedAt,
	"updatedAt":           colUpdatedAt,
}

// ColumnFor returns the store column for a canonical field name.
func ColumnFor(field string) string {
	if col, ok := fieldColumns[field]; ok {
		return col
	}
	return field
}

// FieldFor returns the canonical field name for a store column.
func FieldFor(column string) string {
	for field, col := range fieldColumns {
		if col == column {
			return field
		}
	}
	return column
}

// toColumns maps form data to store columns. Presence of the required fields,
// the release date and the placeholder cover are checked here; other format
// rules belong to the form validator.
func toColumns(f FormData) (Columns, error) {
	fields := map[string]string{
		"title":               strings.TrimSpace(f.Title),
		"author":              strings.TrimSpace(f.Author),
		"description":         strings.TrimSpace(f.Description),
		"expectedReleaseDate": strings.TrimSpace(f.ExpectedReleaseDate),
	}
	missing := map[string]string{}
	for name, v := range fields {
		if v == "" {
			missing[name] = "is required"
		}
	}
	if len(missing) > 0 {
		return nil, domainerrors.ValidationWithDetails("missing required fields", missing)
	}

	released, err := ParseDate(fields["expectedReleaseDate"])
	if err != nil {
		return nil, domainerrors.ValidationWithDetails("invalid release date", map[string]string{
			"expectedReleaseDate": "must be a date in 2006-01-02 format",
		})
	}

	// The placeholder is what a missing cover reads back as, so it cannot be
	// stored as a real cover.
	if strings.TrimSpace(f.CoverImageURL) == DefaultCoverImageURL {
		return nil, domainerrors.ValidationWithDetails("invalid cover image", map[string]string{
			"coverImageUrl": "leave blank to use the placeholder cover",
		})
	}

	values := map[string]any{
		"title":               fields["title"],
		"author":              fields["author"],
		"description":         fields["description"],
		"coverImageUrl":       optional(f.CoverImageURL),
		"expectedReleaseDate": released.Time,
		"preorderUrl":         optional(f.PreorderURL),
	}
	cols := make(Columns, len(values)+1)
	for field, v := range values {
		cols[ColumnFor(field)] = v
	}
	return cols, nil
}

// optional turns a blank form value into a NULL column.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// fromRow converts a store row into the canonical record. Missing required
// columns fail with a schema mismatch instead of leaking nulls downstream.
func fromRow(r Row) (UpcomingBook, error) {
	required := []struct {
		column string
		value  *string
	}{
		{colID, r.ID},
		{colTitle, r.Title},
		{colAuthor, r.Author},
		{colDescription, r.Description},
	}
	for _, c := range required {
		if c.value == nil || strings.TrimSpace(*c.value) == "" {
			return UpcomingBook{}, mismatch(r, c.column)
		}
	}
	if r.ExpectedReleaseDate == nil || r.ExpectedReleaseDate.IsZero() {
		return UpcomingBook{}, mismatch(r, colExpectedReleaseDate)
	}

	b := UpcomingBook{
		ID:                  *r.ID,
		Title:               *r.Title,
		Author:              *r.Author,
		Description:         *r.Description,
		CoverImageURL:       DefaultCoverImageURL,
		ExpectedReleaseDate: DateOf(*r.ExpectedReleaseDate),
		PreorderURL:         optionalPtr(r.PreorderURL),
	}
	if r.CoverImageURL != nil && strings.TrimSpace(*r.CoverImageURL) != "" {
		b.CoverImageURL = *r.CoverImageURL
	}
	if r.CreatedAt != nil {
		b.CreatedAt = *r.CreatedAt
	}
	b.UpdatedAt = b.CreatedAt
	if r.UpdatedAt != nil {
		b.UpdatedAt = *r.UpdatedAt
	}
	return b, nil
}

func optionalPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return optional(*p)
}

func mismatch(r Row, column string) error {
	id := "<unknown>"
	if r.ID != nil && *r.ID != "" {
		id = *r.ID
	}
	return domainerrors.SchemaMismatch("upcoming_books row " + id + " has no " + column).
		WithDetails(map[string]string{FieldFor(column): "missing in store row"})
}

// ToFormData is the inverse of the write mapping, used to prefill edit forms.
// The default cover is reported as unset, matching the form that stored it.
func ToFormData(b UpcomingBook) FormData {
	f := FormData{
		Title:               b.Title,
		Author:              b.Author,
		Description:         b.Description,
		ExpectedReleaseDate: b.ExpectedReleaseDate.String(),
	}
	if b.CoverImageURL != DefaultCoverImageURL {
		f.CoverImageURL = b.CoverImageURL
	}
	if b.PreorderURL != nil {
		f.PreorderURL = *b.PreorderURL
	}
	return f
}

// stamp returns t in UTC truncated to the precision Postgres keeps.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
