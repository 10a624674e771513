package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookregistry/internal/entity"
)

type Service struct {
	registrar Registrar
	repo      Repository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the registrar with an optional audit repository. A nil
// repo disables auditing.
func NewService(registrar Registrar, repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		registrar: registrar,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
	}
}

// AuditEnabled reports whether attempts are persisted.
func (s *Service) AuditEnabled() bool {
	return s.repo != nil
}

// Register upserts book and records the attempt. Audit failures are logged
// and never change the outcome.
func (s *Service) Register(ctx context.Context, book entity.Book, accessToken string) (Result, error) {
	attempt := &Attempt{
		ID:        uuid.NewString(),
		ISBN:      book.ISBN,
		Title:     book.Title,
		RequestID: requestIDFrom(ctx),
		StartedAt: s.now(),
	}

	created, err := s.registrar.RegisterBook(ctx, book, accessToken)

	attempt.FinishedAt = s.now()
	switch {
	case err != nil:
		attempt.Status = StatusFailed
		attempt.Error = err.Error()
	case created:
		attempt.Status = StatusCreated
	default:
		attempt.Status = StatusUpdated
	}

	s.record(ctx, attempt)

	log := s.logger.With().
		Str("isbn", attempt.ISBN).
		Str("attempt_id", attempt.ID).
		Dur("duration", attempt.FinishedAt.Sub(attempt.StartedAt)).
		Logger()
	if err != nil {
		log.Warn().Err(err).Msg("registration failed")
		return Result{AttemptID: attempt.ID}, err
	}
	log.Info().Str("status", string(attempt.Status)).Msg("book registered")

	return Result{AttemptID: attempt.ID, Created: attempt.Created()}, nil
}

func (s *Service) record(ctx context.Context, attempt *Attempt) {
	if s.repo == nil {
		return
	}
	// The caller may have gone away; the audit row is still written.
	if err := s.repo.Save(context.WithoutCancel(ctx), attempt); err != nil {
		s.logger.Error().Err(err).Str("attempt_id", attempt.ID).Msg("failed to save registration attempt")
	}
}

// History lists attempts newest first.
func (s *Service) History(ctx context.Context, filter Filter) ([]Attempt, error) {
	if s.repo == nil {
		return nil, ErrAuditDisabled
	}
	return s.repo.List(ctx, filter.normalized())
}

// Attempt returns a single audit record. Malformed ids are reported as not found.
func (s *Service) Attempt(ctx context.Context, id string) (*Attempt, error) {
	if s.repo == nil {
		return nil, ErrAuditDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAttemptNotFound
	}
	return s.repo.Get(ctx, id)
}

type requestIDKey struct{}

// WithRequestID tags ctx so that audit rows can be correlated with access logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}
