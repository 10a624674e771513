package openlibrary

import (
	"context"
	"regexp"
	"strings"
	"time"

	"bookregistry/internal/entity"
)

const (
	// DefaultLanguage is used because jscmd=data carries no language.
	DefaultLanguage = "en"
	maxCategories   = 10
)

var yearPattern = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)

// publish_date is free text; each layout records how much of the date it carries.
var dateLayouts = []struct {
	layout string
	format string
}{
	{"2006-01-02", "2006-01-02"},
	{"2006-01", "2006-01"},
	{"2006", "2006"},
	{"January 2, 2006", "2006-01-02"},
	{"Jan 2, 2006", "2006-01-02"},
	{"2 January 2006", "2006-01-02"},
	{"2 Jan 2006", "2006-01-02"},
	{"January 2006", "2006-01"},
	{"Jan 2006", "2006-01"},
	{"Jan. 2006", "2006-01"},
}

// GetBookByISBN fetches an edition and maps it onto a Book ready to register.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (entity.Book, error) {
	details, err := c.GetBookDetails(ctx, isbn)
	if err != nil {
		return entity.Book{}, err
	}
	return ToBook(isbn, details), nil
}

// ToBook converts Open Library edition data into a Book.
func ToBook(isbn string, d BookDetails) entity.Book {
	title := strings.TrimSpace(d.Title)
	if sub := strings.TrimSpace(d.Subtitle); sub != "" {
		title += ": " + sub
	}

	book := entity.Book{
		Title:         title,
		ISBN:          isbn,
		Authors:       make([]string, 0, len(d.Authors)),
		PublishedDate: NormalizePublishDate(d.PublishDate),
		Language:      DefaultLanguage,
	}

	for _, a := range d.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			book.Authors = append(book.Authors, name)
		}
	}

	if len(d.Publishers) > 0 && strings.TrimSpace(d.Publishers[0].Name) != "" {
		name := strings.TrimSpace(d.Publishers[0].Name)
		book.Publisher = &name
	}

	if notes := formatNotes(d.Notes); notes != "" {
		book.Description = &notes
	}

	if len(d.Subjects) > 0 {
		book.Categories = make([]string, 0, maxCategories)
		for _, s := range d.Subjects {
			if len(book.Categories) == maxCategories {
				break
			}
			if name := strings.TrimSpace(s.Name); name != "" {
				book.Categories = append(book.Categories, name)
			}
		}
	}

	cover := d.Cover.Large
	if cover == "" {
		cover = d.Cover.Medium
	}
	if cover != "" {
		book.ThumbnailURL = &cover
	}

	return book
}

// NormalizePublishDate turns Open Library's publish_date into YYYY, YYYY-MM or
// YYYY-MM-DD. Unrecognised values fall back to the first four-digit year, or
// are returned trimmed but otherwise untouched.
func NormalizePublishDate(raw string) string {
	s := strings.TrimSpace(raw)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t.Format(l.format)
		}
	}
	if m := yearPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func formatNotes(notes interface{}) string {
	if s, ok := notes.(string); ok {
		return strings.TrimSpace(s)
	}
	if m, ok := notes.(map[string]interface{}); ok {
		if v, ok := m["value"].(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
