// Kudos HTTP handlers.
//
// This file exposes the recognition endpoints:
//   - POST /kudos        (submit a recognition)
//   - GET  /categories   (the fixed category list)
//
// A POST carrying an Idempotency-Key whose response was already stored is
// answered from the store with Idempotency-Replayed: true, as long as the
// payload matches the one first sent under that key. A different payload
// reusing the key gets 422. Without a key every POST records a new
// recognition.
package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-kudos-backend/internal/domain"
	"github.com/tbourn/go-kudos-backend/internal/http/middleware"
	"github.com/tbourn/go-kudos-backend/internal/repo"
	"github.com/tbourn/go-kudos-backend/internal/services"
)

// KudosService processes one recognition.
type KudosService interface {
	Submit(ctx context.Context, in services.Input) (services.Outputs, error)
}

// UserService serves aggregates, the leaderboard and history.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.UserAggregate, error)
	Leaderboard(ctx context.Context, page, pageSize int) ([]domain.UserAggregate, int64, error)
	History(ctx context.Context, id string, page, pageSize int) ([]domain.RecognitionEntry, int64, error)
}

// IdempotencyStore keeps submitted responses per (user, key).
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string, now time.Time) (*domain.Idempotency, error)
	Save(ctx context.Context, userID, key, requestHash, transactionID string, status int, response []byte) error
}

// Handlers groups the HTTP endpoints. idem may be nil, which disables replay.
type Handlers struct {
	kudos KudosService
	users UserService
	idem  IdempotencyStore
}

// New returns Handlers bound to the given services.
func New(kudos KudosService, users UserService, idem IdempotencyStore) *Handlers {
	return &Handlers{kudos: kudos, users: users, idem: idem}
}

// SubmitKudosRequest is the JSON payload of POST /kudos.
type SubmitKudosRequest struct {
	// Free-text message from the sender.
	Message string `json:"message" example:"Great work on the release"`
	// Sender user id.
	User string `json:"user" example:"U1"`
	// Receiver user id.
	Receiver string `json:"receiver" example:"U2"`
	// Category label or bare name.
	KudoValue string `json:"kudo_value" example:"Leadership ☄️"`
	// When true, the public message hides the sender and the body.
	PrivateScope *bool `json:"private_scope,omitempty" example:"true"`
}

// CategoryResponse is one entry of GET /categories.
type CategoryResponse struct {
	Name  string `json:"name" example:"Leadership"`
	Emoji string `json:"emoji" example:"☄️"`
	Label string `json:"label" example:"Leadership ☄️"`
}

// ListCategoriesResponse wraps the category list.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// SubmitKudos godoc
// @ID          submitKudos
// @Summary     Submit a recognition
// @Description Records a recognition for the receiver and returns the messages to deliver. Supports Idempotency-Key for safe retries.
// @Tags        Kudos
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Caller id (scopes Idempotency-Key)"  example(U1)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"    example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.SubmitKudosRequest  true  "Recognition"
//
// @Success     201  {object}  services.Outputs
// @Header      201  {string}  Idempotency-Replayed  "true when served from a stored response"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     409  {object}  handlers.ErrorResponse  "Concurrent update of the receiver"
// @Failure     422  {object}  handlers.ErrorResponse  "Unknown category, or Idempotency-Key reused with a different payload"
// @Failure     500  {object}  handlers.ErrorResponse  "Persistence failure"
// @Router      /kudos [post]
func (h *Handlers) SubmitKudos(c *gin.Context) {
	ctx := c.Request.Context()

	var req SubmitKudosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	caller := middleware.UserID(c)
	idemKey, _ := middleware.GetIdempotencyKey(c)
	reqHash := requestHash(req)
	if idemKey != "" && h.idem != nil {
		if rec, err := h.idem.Lookup(ctx, caller, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if rec.RequestHash != reqHash {
				fail(c, http.StatusUnprocessableEntity, ErrCodeIdempotencyReused, "Idempotency-Key was already used with a different payload")
				return
			}
			c.Header("Idempotency-Replayed", "true")
			c.Data(rec.Status, "application/json; charset=utf-8", rec.Response)
			return
		}
	}

	out, err := h.kudos.Submit(ctx, services.Input{
		Message:      req.Message,
		User:         req.User,
		Receiver:     req.Receiver,
		KudoValue:    req.KudoValue,
		PrivateScope: req.PrivateScope,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrComposition):
			fail(c, http.StatusUnprocessableEntity, ErrCodeUnknownCategory, err.Error())
		case errors.Is(err, repo.ErrVersionConflict):
			fail(c, http.StatusConflict, ErrCodeConflict, "receiver was updated concurrently; retry")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		}
		return
	}

	body, err := json.Marshal(out)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if idemKey != "" && h.idem != nil {
		if err := h.idem.Save(ctx, caller, idemKey, reqHash, out.TransactionID, http.StatusCreated, body); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
}

// requestHash fingerprints the decoded payload, so whitespace or key order
// in the raw body does not matter.
func requestHash(req SubmitKudosRequest) string {
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List recognition categories
// @Description Returns the fixed set of categories a kudo can be given for, in form order.
// @Tags        Kudos
// @Produce     json
// @Success     200  {object}  handlers.ListCategoriesResponse
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	out := make([]CategoryResponse, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		out = append(out, CategoryResponse{Name: cat.Name, Emoji: cat.Emoji, Label: cat.Label()})
	}
	ok(c, http.StatusOK, ListCategoriesResponse{Categories: out})
}
