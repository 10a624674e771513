package registry

import (
	"context"

	"github.com/rs/zerolog"

	"bookregistry/internal/entity"
	"bookregistry/internal/platform/notion"
)

// Service registers books in the first Notion database reachable by a token.
type Service struct {
	stores StoreFactory
	logger zerolog.Logger
}

// NewService creates a new registrar.
func NewService(stores StoreFactory, logger zerolog.Logger) *Service {
	return &Service{stores: stores, logger: logger}
}

// RegisterBook creates or updates the row whose ISBN equals book.ISBN and
// reports whether a new row was created. Store errors are returned as is.
//
// The lookup and the write are separate requests, so two concurrent calls for
// the same ISBN can both create a row.
func (s *Service) RegisterBook(ctx context.Context, book entity.Book, accessToken string) (bool, error) {
	props, err := BuildProperties(book)
	if err != nil {
		return false, err
	}
	icon := buildIcon(book)

	store := s.stores(accessToken)

	databaseID, err := s.firstDatabaseID(ctx, store)
	if err != nil {
		return false, err
	}

	existing, err := store.QueryDatabase(ctx, databaseID, notion.QueryRequest{
		Filter: notion.TextEquals(PropISBN, book.ISBN),
	})
	log := s.logger.With().Str("isbn", book.ISBN).Str("database_id", databaseID).Logger()
	if err != nil {
		log.Debug().Err(err).Msg("query database failed")
		return false, err
	}

	if len(existing.Results) > 0 {
		pageID := existing.Results[0].ID
		if len(existing.Results) > 1 {
			log.Warn().Int("matches", len(existing.Results)).Msg("multiple rows share this ISBN, updating the first")
		}
		_, err := store.UpdatePage(ctx, pageID, notion.UpdatePageRequest{
			Properties: props,
			Icon:       icon,
		})
		if err != nil {
			log.Debug().Err(err).Str("page_id", pageID).Msg("update page failed")
			return false, err
		}
		log.Debug().Str("page_id", pageID).Int("properties", props.Len()).Msg("book updated")
		return false, nil
	}

	page, err := store.CreatePage(ctx, notion.CreatePageRequest{
		Parent:     notion.Parent{DatabaseID: databaseID},
		Properties: props,
		Icon:       icon,
	})
	if err != nil {
		log.Debug().Err(err).Msg("create page failed")
		return false, err
	}
	log.Debug().Str("page_id", page.ID).Int("properties", props.Len()).Msg("book created")
	return true, nil
}

// firstDatabaseID picks the first database in the store's own search order.
// The schema is not checked; a mismatching database fails at write time.
func (s *Service) firstDatabaseID(ctx context.Context, store Store) (string, error) {
	res, err := store.Search(ctx, notion.SearchRequest{Filter: notion.DatabaseFilter()})
	if err != nil {
		s.logger.Debug().Err(err).Msg("search databases failed")
		return "", err
	}
	if len(res.Results) == 0 {
		return "", ErrNoCollectionFound
	}
	return res.Results[0].ID, nil
}
