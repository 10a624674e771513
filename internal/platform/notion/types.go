package notion

import (
	"fmt"
)

// Property value types understood by this client.
const (
	TypeTitle       = "title"
	TypeRichText    = "rich_text"
	TypeSelect      = "select"
	TypeMultiSelect = "multi_select"
	TypeDate        = "date"
)

// Filter matches the filter object of /v1/search and /v1/databases/{id}/query.
type Filter struct {
	Property string      `json:"property"`
	Value    string      `json:"value,omitempty"`
	RichText *TextFilter `json:"rich_text,omitempty"`
}

type TextFilter struct {
	Equals string `json:"equals"`
}

// DatabaseFilter selects objects of kind database in a search.
func DatabaseFilter() *Filter {
	return &Filter{Property: "object", Value: "database"}
}

// TextEquals matches rows whose text property equals value exactly.
func TextEquals(property, value string) *Filter {
	return &Filter{Property: property, RichText: &TextFilter{Equals: value}}
}

type SearchRequest struct {
	Query  string  `json:"query,omitempty"`
	Filter *Filter `json:"filter,omitempty"`
}

// Object is the common header of every search result.
type Object struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

type SearchResponse struct {
	Object     string   `json:"object"`
	Results    []Object `json:"results"`
	NextCursor *string  `json:"next_cursor"`
	HasMore    bool     `json:"has_more"`
}

type QueryRequest struct {
	Filter *Filter `json:"filter,omitempty"`
}

type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type Parent struct {
	DatabaseID string `json:"database_id"`
}

type ExternalFile struct {
	URL string `json:"url"`
}

type Icon struct {
	Type     string        `json:"type"`
	External *ExternalFile `json:"external,omitempty"`
}

// ExternalIcon builds an icon referencing an image hosted outside Notion.
func ExternalIcon(url string) *Icon {
	return &Icon{Type: "external", External: &ExternalFile{URL: url}}
}

type Page struct {
	Object     string      `json:"object"`
	ID         string      `json:"id"`
	Parent     *Parent     `json:"parent,omitempty"`
	Icon       *Icon       `json:"icon,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

type CreatePageRequest struct {
	Parent     Parent      `json:"parent"`
	Properties *Properties `json:"properties"`
	Icon       *Icon       `json:"icon,omitempty"`
}

type UpdatePageRequest struct {
	Properties *Properties `json:"properties"`
	Icon       *Icon       `json:"icon,omitempty"`
}

type Text struct {
	Content string `json:"content"`
}

type RichText struct {
	Type string `json:"type,omitempty"`
	Text Text   `json:"text"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type Date struct {
	Start string `json:"start"`
}

// PropertyValue is one typed field of a page. Only the member matching Type is encoded.
type PropertyValue struct {
	Type        string
	Title       []RichText
	RichText    []RichText
	Select      *SelectOption
	MultiSelect []SelectOption
	Date        *Date
}

func TitleValue(s string) PropertyValue {
	return PropertyValue{Type: TypeTitle, Title: []RichText{{Text: Text{Content: s}}}}
}

func TextValue(s string) PropertyValue {
	return PropertyValue{Type: TypeRichText, RichText: []RichText{{Text: Text{Content: s}}}}
}

func SelectValue(name string) PropertyValue {
	return PropertyValue{Type: TypeSelect, Select: &SelectOption{Name: name}}
}

func MultiSelectValue(names []string) PropertyValue {
	opts := make([]SelectOption, len(names))
	for i, n := range names {
		opts[i] = SelectOption{Name: n}
	}
	return PropertyValue{Type: TypeMultiSelect, MultiSelect: opts}
}

func DateValue(start string) PropertyValue {
	return PropertyValue{Type: TypeDate, Date: &Date{Start: start}}
}

// PlainText concatenates the text content of a title or rich_text value.
func (v PropertyValue) PlainText() string {
	var parts []RichText
	switch v.Type {
	case TypeTitle:
		parts = v.Title
	case TypeRichText:
		parts = v.RichText
	}
	s := ""
	for _, p := range parts {
		s += p.Text.Content
	}
	return s
}

// Names returns the option names of a multi_select value.
func (v PropertyValue) Names() []string {
	names := make([]string, len(v.MultiSelect))
	for i, o := range v.MultiSelect {
		names[i] = o.Name
	}
	return names
}

func (v PropertyValue) MarshalJSON() ([]byte, error) {
	var inner any
	switch v.Type {
	case TypeTitle:
		inner = nonNil(v.Title)
	case TypeRichText:
		inner = nonNil(v.RichText)
	case TypeSelect:
		inner = v.Select
	case TypeMultiSelect:
		opts := v.MultiSelect
		if opts == nil {
			opts = []SelectOption{}
		}
		inner = opts
	case TypeDate:
		inner = v.Date
	default:
		return nil, fmt.Errorf("notion: unsupported property type %q", v.Type)
	}
	return json.Marshal(map[string]any{v.Type: inner})
}

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string         `json:"type"`
		Title       []RichText     `json:"title"`
		RichText    []RichText     `json:"rich_text"`
		Select      *SelectOption  `json:"select"`
		MultiSelect []SelectOption `json:"multi_select"`
		Date        *Date          `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*v = PropertyValue{
		Type:        raw.Type,
		Title:       raw.Title,
		RichText:    raw.RichText,
		Select:      raw.Select,
		MultiSelect: raw.MultiSelect,
		Date:        raw.Date,
	}
	if v.Type != "" {
		return nil
	}

	// request payloads carry no "type" key
	switch {
	case raw.Title != nil:
		v.Type = TypeTitle
	case raw.RichText != nil:
		v.Type = TypeRichText
	case raw.Select != nil:
		v.Type = TypeSelect
	case raw.MultiSelect != nil:
		v.Type = TypeMultiSelect
	case raw.Date != nil:
		v.Type = TypeDate
	}
	return nil
}

func nonNil(rt []RichText) []RichText {
	if rt == nil {
		return []RichText{}
	}
	return rt
}
