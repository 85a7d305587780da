// Package upcoming manages the "coming soon" book previews shown on the site
// and edited from the admin area.
package upcoming

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultCoverImageURL is served for previews stored without a cover.
const DefaultCoverImageURL = "/images/cover-placeholder.svg"

const dateLayout = "2006-01-02"

// UpcomingBook is the canonical, display-ready preview record.
type UpcomingBook struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Author              string    `json:"author"`
	Description         string    `json:"description"`
	CoverImageURL       string    `json:"coverImageUrl"`
	ExpectedReleaseDate Date      `json:"expectedReleaseDate"`
	PreorderURL         *string   `json:"preorderUrl,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// FormData is the admin form payload for creating or editing a preview.
// Empty CoverImageURL and PreorderURL mean "not set".
type FormData struct {
	Title               string `json:"title" validate:"required,max=300"`
	Author              string `json:"author" validate:"required,max=200"`
	Description         string `json:"description" validate:"required,max=5000"`
	CoverImageURL       string `json:"coverImageUrl,omitempty" validate:"omitempty,imageref"`
	ExpectedReleaseDate string `json:"expectedReleaseDate" validate:"required,datetime=2006-01-02"`
	PreorderURL         string `json:"preorderUrl,omitempty" validate:"omitempty,url"`
}

// Date is a calendar date without time of day, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
