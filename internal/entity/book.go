package entity

// Book is the metadata registered for a single ISBN.
type Book struct {
	Title         string   `json:"title" validate:"required"`
	ISBN          string   `json:"isbn" validate:"required"`
	Publisher     *string  `json:"publisher,omitempty"`
	Authors       []string `json:"authors"`
	Description   *string  `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PublishedDate string   `json:"published_date" validate:"required"`
	Language      string   `json:"language" validate:"required"`
	ThumbnailURL  *string  `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

// HasPublisher reports whether a non-empty publisher was supplied.
func (b Book) HasPublisher() bool {
	return b.Publisher != nil && *b.Publisher != ""
}

// HasDescription reports whether a non-empty description was supplied.
func (b Book) HasDescription() bool {
	return b.Description != nil && *b.Description != ""
}

// HasThumbnail reports whether a non-empty thumbnail URL was supplied.
func (b Book) HasThumbnail() bool {
	return b.ThumbnailURL != nil && *b.ThumbnailURL != ""
}
