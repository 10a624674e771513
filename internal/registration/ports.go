package registration

import (
	"context"

	"bookregistry/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=registration

// Registrar upserts a book into the caller's Notion workspace.
type Registrar interface {
	RegisterBook(ctx context.Context, book entity.Book, accessToken string) (bool, error)
}

type Repository interface {
	Save(ctx context.Context, attempt *Attempt) error
	List(ctx context.Context, filter Filter) ([]Attempt, error)
	Get(ctx context.Context, id string) (*Attempt, error)
}
