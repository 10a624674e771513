package registry

import (
	"bookregistry/internal/entity"
	"bookregistry/internal/platform/notion"
)

// BuildProperties maps a book onto the database columns. Optional attributes
// that are absent are left out of the payload rather than sent empty.
func BuildProperties(book entity.Book) (*notion.Properties, error) {
	published, err := SanitizeDate(book.PublishedDate)
	if err != nil {
		return nil, err
	}

	p := notion.NewProperties()
	p.Set(PropTitle, notion.TitleValue(book.Title))
	p.Set(PropISBN, notion.TextValue(book.ISBN))
	if book.HasPublisher() {
		p.Set(PropPublisher, notion.SelectValue(*book.Publisher))
	}
	p.Set(PropAuthors, notion.MultiSelectValue(book.Authors))
	if book.HasDescription() {
		p.Set(PropDescription, notion.TextValue(*book.Description))
	}
	if book.Categories != nil {
		p.Set(PropCategories, notion.MultiSelectValue(sanitizeCategories(book.Categories)))
	}
	p.Set(PropPublishedDate, notion.DateValue(published))
	p.Set(PropLanguage, notion.SelectValue(book.Language))

	return p, nil
}

func buildIcon(book entity.Book) *notion.Icon {
	if !book.HasThumbnail() {
		return nil
	}
	return notion.ExternalIcon(*book.ThumbnailURL)
}
