package registration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"bookregistry/internal/entity"
	"bookregistry/internal/httpx"
	"bookregistry/internal/platform/notion"
	"bookregistry/internal/registry"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Register handles POST /registrations
// @Summary Register a book in Notion
// @Description Upsert the book into the first database shared with the token, keyed by ISBN
// @Tags registrations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <notion access token>"
// @Param book body entity.Book true "Book metadata"
// @Success 201 {object} httpx.SuccessResponse
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /registrations [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Notion access token required", nil)
		return
	}

	var book entity.Book
	if err := httpx.DecodeJSON(r, &book); err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", err.Error(), nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", err.Error(), nil)
		return
	}

	if details := httpx.ValidateStruct(book); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book", details)
		return
	}

	ctx := WithRequestID(r.Context(), httpx.RequestIDFrom(r))
	res, err := h.svc.Register(ctx, book, token)
	if err != nil {
		writeRegisterError(w, r, err)
		return
	}

	if res.Created {
		httpx.JSONSuccessCreated(w, r, res)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

func writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidDate):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "INVALID_DATE", err.Error(), []httpx.ErrorDetail{
			{Field: "published_date", Message: err.Error()},
		})
		return
	case errors.Is(err, registry.ErrNoCollectionFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NO_COLLECTION", "No Notion database is shared with this token", nil)
		return
	case errors.Is(err, context.DeadlineExceeded):
		httpx.JSONError(w, r, http.StatusGatewayTimeout, "TIMEOUT", "Notion did not answer in time", nil)
		return
	}

	if apiErr, ok := notion.AsAPIError(err); ok {
		if apiErr.Status == http.StatusUnauthorized {
			httpx.JSONError(w, r, http.StatusUnauthorized, "NOTION_UNAUTHORIZED", apiErr.Message, nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "NOTION_ERROR",
			fmt.Sprintf("notion returned %d %s: %s", apiErr.Status, apiErr.Code, apiErr.Message), nil)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("registration failed")
	httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Could not reach Notion", nil)
}

// List handles GET /registrations
// @Summary List registration attempts
// @Description Audit trail of registrations, newest first
// @Tags registrations
// @Produce json
// @Param X-Internal-Secret header string false "Internal secret when configured"
// @Param isbn query string false "Filter by ISBN"
// @Param limit query int false "Max items" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /registrations [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := DefaultLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	filter := Filter{ISBN: query.Get("isbn"), Limit: limit}.normalized()

	attempts, err := h.svc.History(r.Context(), filter)
	if err != nil {
		writeHistoryError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, attempts, map[string]interface{}{
		"limit": filter.Limit,
		"count": len(attempts),
	})
}

// Get handles GET /registrations/{id}
// @Summary Get a registration attempt
// @Tags registrations
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /registrations/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.svc.Attempt(r.Context(), r.PathValue("id"))
	if err != nil {
		writeHistoryError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, attempt, nil)
}

func writeHistoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrAuditDisabled):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "AUDIT_DISABLED", "Registration history is not configured", nil)
	case errors.Is(err, ErrAttemptNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Registration attempt not found", nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("registration history failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
