package registry

import (
	"errors"
)

var (
	// ErrNoCollectionFound is returned when the token cannot reach any database.
	ErrNoCollectionFound = errors.New("no databases found")
	// ErrInvalidDate is returned when a published date has more than three parts.
	ErrInvalidDate = errors.New("invalid date")
)

// Property names of the target database. They must exist in its schema.
const (
	PropTitle         = "Title"
	PropISBN          = "ISBN"
	PropPublisher     = "Publisher"
	PropAuthors       = "Authors"
	PropDescription   = "Description"
	PropCategories    = "Categories"
	PropPublishedDate = "Published Date"
	PropLanguage      = "Language"
)
