package registry

import (
	"context"

	"bookregistry/internal/platform/notion"
)

// Store is the part of the Notion API the registrar talks to.
type Store interface {
	Search(ctx context.Context, req notion.SearchRequest) (*notion.SearchResponse, error)
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) (*notion.QueryResponse, error)
	CreatePage(ctx context.Context, req notion.CreatePageRequest) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, req notion.UpdatePageRequest) (*notion.Page, error)
}

// StoreFactory binds a Store to an access token.
type StoreFactory func(accessToken string) Store

// NotionStores returns a factory building real API clients from cfg.
func NotionStores(cfg notion.Config) StoreFactory {
	return func(accessToken string) Store {
		return notion.NewClient(cfg, accessToken)
	}
}
