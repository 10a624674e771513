package notion_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookregistry/internal/platform/notion"
	"bookregistry/internal/platform/notion/notiontest"
)

func TestClient_Search(t *testing.T) {
	var gotAuth, gotVersion, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","results":[{"object":"database","id":"db-1"},{"object":"database","id":"db-2"}],"has_more":false}`))
	}))
	defer srv.Close()

	c := notion.NewClient(notion.Config{BaseURL: srv.URL}, "secret_abc")
	res, err := c.Search(context.Background(), notion.SearchRequest{Filter: notion.DatabaseFilter()})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret_abc", gotAuth)
	assert.Equal(t, notion.DefaultVersion, gotVersion)
	assert.JSONEq(t, `{"filter":{"property":"object","value":"database"}}`, gotBody)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "db-1", res.Results[0].ID)
}

func TestClient_QueryDatabase_TextFilter(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"object":"list","results":[{"object":"page","id":"p-1","properties":{"ISBN":{"id":"x","type":"rich_text","rich_text":[{"type":"text","text":{"content":"123"}}]}}}]}`))
	}))
	defer srv.Close()

	c := notion.NewClient(notion.Config{BaseURL: srv.URL}, "t")
	res, err := c.QueryDatabase(context.Background(), "db-1", notion.QueryRequest{Filter: notion.TextEquals("ISBN", "123")})
	require.NoError(t, err)

	assert.Equal(t, "/v1/databases/db-1/query", gotPath)
	assert.JSONEq(t, `{"filter":{"property":"ISBN","rich_text":{"equals":"123"}}}`, gotBody)
	require.Len(t, res.Results, 1)
	v, ok := res.Results[0].Properties.Get("ISBN")
	require.True(t, ok)
	assert.Equal(t, notion.TypeRichText, v.Type)
	assert.Equal(t, "123", v.PlainText())
}

func TestClient_APIError(t *testing.T) {
	t.Run("notion error body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"Publisher is not a property that exists."}`))
		}))
		defer srv.Close()

		c := notion.NewClient(notion.Config{BaseURL: srv.URL}, "t")
		_, err := c.CreatePage(context.Background(), notion.CreatePageRequest{Parent: notion.Parent{DatabaseID: "db"}, Properties: notion.NewProperties()})
		require.Error(t, err)

		apiErr, ok := notion.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "validation_error", apiErr.Code)
		assert.Contains(t, err.Error(), "Publisher is not a property")
	})

	t.Run("non json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer srv.Close()

		c := notion.NewClient(notion.Config{BaseURL: srv.URL}, "t")
		_, err := c.UpdatePage(context.Background(), "p-1", notion.UpdatePageRequest{Properties: notion.NewProperties()})

		apiErr, ok := notion.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
		assert.Equal(t, "upstream down", apiErr.Message)
	})

	t.Run("unauthorized", func(t *testing.T) {
		fake := notiontest.NewServer(t)
		fake.Token = "good"

		c := notion.NewClient(fake.Config(), "bad")
		_, err := c.Search(context.Background(), notion.SearchRequest{Filter: notion.DatabaseFilter()})
		assert.True(t, notion.IsUnauthorized(err))
	})
}

func TestClient_CreateAndUpdatePage(t *testing.T) {
	fake := notiontest.NewServer(t)
	fake.AddDatabase("db-1")
	c := notion.NewClient(fake.Config(), "t")
	ctx := context.Background()

	props := notion.NewProperties()
	props.Set("Title", notion.TitleValue("Dune"))
	props.Set("ISBN", notion.TextValue("9780441013593"))

	page, err := c.CreatePage(ctx, notion.CreatePageRequest{
		Parent:     notion.Parent{DatabaseID: "db-1"},
		Properties: props,
		Icon:       notion.ExternalIcon("https://covers.example/dune.jpg"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, page.ID)

	update := notion.NewProperties()
	update.Set("Title", notion.TitleValue("Dune Messiah"))
	_, err = c.UpdatePage(ctx, page.ID, notion.UpdatePageRequest{Properties: update})
	require.NoError(t, err)

	stored, ok := fake.Page(page.ID)
	require.True(t, ok)
	title, _ := stored.Properties.Get("Title")
	assert.Equal(t, "Dune Messiah", title.PlainText())
	isbn, _ := stored.Properties.Get("ISBN")
	assert.Equal(t, "9780441013593", isbn.PlainText())
	require.NotNil(t, stored.Icon)
	assert.Equal(t, "https://covers.example/dune.jpg", stored.Icon.External.URL)
}

func TestClient_QueryUnknownDatabase(t *testing.T) {
	fake := notiontest.NewServer(t)
	c := notion.NewClient(fake.Config(), "t")

	_, err := c.QueryDatabase(context.Background(), "missing", notion.QueryRequest{})
	apiErr, ok := notion.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
}
