package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_MarshalKeepsInsertionOrder(t *testing.T) {
	p := NewProperties()
	p.Set("Title", TitleValue("Dune"))
	p.Set("ISBN", TextValue("9780441013593"))
	p.Set("Authors", MultiSelectValue([]string{"Frank Herbert"}))
	p.Set("Published Date", DateValue("1965-01-01"))
	p.Set("Language", SelectValue("en"))

	b, err := json.Marshal(p)
	require.NoError(t, err)

	want := `{"Title":{"title":[{"text":{"content":"Dune"}}]},` +
		`"ISBN":{"rich_text":[{"text":{"content":"9780441013593"}}]},` +
		`"Authors":{"multi_select":[{"name":"Frank Herbert"}]},` +
		`"Published Date":{"date":{"start":"1965-01-01"}},` +
		`"Language":{"select":{"name":"en"}}}`
	assert.Equal(t, want, string(b))
}

func TestProperties_SetReplacesInPlace(t *testing.T) {
	p := NewProperties()
	p.Set("A", TextValue("1"))
	p.Set("B", TextValue("2"))
	p.Set("A", TextValue("3"))

	assert.Equal(t, []string{"A", "B"}, p.Names())
	v, _ := p.Get("A")
	assert.Equal(t, "3", v.PlainText())
}

func TestProperties_EmptyMultiSelectIsEncoded(t *testing.T) {
	p := NewProperties()
	p.Set("Categories", MultiSelectValue([]string{}))

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"Categories":{"multi_select":[]}}`, string(b))
}

func TestProperties_UnmarshalRoundTrip(t *testing.T) {
	in := `{"Language":{"select":{"name":"en"}},"Title":{"title":[{"text":{"content":"Dune"}}]},"Categories":{"multi_select":[{"name":"Sci-Fi-Classic"}]}}`

	var p Properties
	require.NoError(t, json.Unmarshal([]byte(in), &p))

	assert.Equal(t, []string{"Language", "Title", "Categories"}, p.Names())
	lang, _ := p.Get("Language")
	assert.Equal(t, TypeSelect, lang.Type)
	assert.Equal(t, "en", lang.Select.Name)
	cats, _ := p.Get("Categories")
	assert.Equal(t, []string{"Sci-Fi-Classic"}, cats.Names())

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestPropertyValue_UnknownTypeFailsToEncode(t *testing.T) {
	_, err := json.Marshal(PropertyValue{Type: "people"})
	assert.Error(t, err)
}
