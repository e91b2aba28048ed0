// User HTTP handlers.
//
// This file exposes the read side of the recognition core:
//   - GET /users             (leaderboard, paginated, ETag support)
//   - GET /users/:id         (one aggregate)
//   - GET /users/:id/kudos   (received history, paginated, oldest first)
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-kudos-backend/internal/domain"
	"github.com/tbourn/go-kudos-backend/internal/services"
	"github.com/tbourn/go-kudos-backend/internal/utils"
)

const maxUserIDLen = 64

// ListUsersResponse is a leaderboard page.
type ListUsersResponse struct {
	Users      []domain.UserAggregate `json:"users"`
	Pagination Pagination             `json:"pagination"`
}

// ListUserKudosResponse is a page of a user's received recognitions.
type ListUserKudosResponse struct {
	UserID     string                    `json:"user_id"`
	Kudos      []domain.RecognitionEntry `json:"kudos"`
	Pagination Pagination                `json:"pagination"`
}

// statsStore is implemented by stores that can summarize the users table
// cheaply enough to compute a validator.
type statsStore interface {
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	return utils.ClampPage(
		utils.AtoiDefault(c.Query("page"), defaultPage),
		utils.AtoiDefault(c.Query("page_size"), defaultPageSize),
		1, maxPageSize,
	)
}

// userIDParam returns the trimmed :id path param, failing the request when it
// is blank or too long.
func userIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || len(id) > maxUserIDLen {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid user id")
		return "", false
	}
	return id, true
}

// ListUsers godoc
// @ID          listUsers
// @Summary     Leaderboard
// @Description Returns a page of user aggregates ordered by giving points. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Users
// @Produce     json
// @Param       page           query   int     false "Page number (>=1)"        minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page (1..100)"  minimum(1) maximum(100) default(20)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"users:1:20:3:1700000000000000000\")
// @Success     200  {object} handlers.ListUsersResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if svc, ok := h.users.(*services.UserService); ok {
		if st, ok := svc.Store.(statsStore); ok {
			if count, maxTS, err := st.Stats(ctx); err == nil {
				var ts int64
				if maxTS != nil {
					ts = maxTS.UnixNano()
				}
				etag := fmt.Sprintf(`W/"users:%d:%d:%d:%d"`, page, pageSize, count, ts)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	items, total, err := h.users.Leaderboard(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListUsersResponse{
		Users:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user aggregate
// @Tags        Users
// @Produce     json
// @Param       id   path  string  true  "User id"  example(U2)
// @Success     200  {object} domain.UserAggregate
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, valid := userIDParam(c)
	if !valid {
		return
	}
	u, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.userError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// ListUserKudos godoc
// @ID          listUserKudos
// @Summary     List a user's received recognitions
// @Description Returns a page of the recognitions the user received, oldest first.
// @Tags        Users
// @Produce     json
// @Param       id         path   string  true   "User id"  example(U2)
// @Param       page       query  int     false  "Page number (>=1)"        minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page (1..100)"  minimum(1) maximum(100) default(20)
// @Success     200  {object} handlers.ListUserKudosResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{id}/kudos [get]
func (h *Handlers) ListUserKudos(c *gin.Context) {
	id, valid := userIDParam(c)
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.users.History(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.userError(c, err)
		return
	}
	ok(c, http.StatusOK, ListUserKudosResponse{
		UserID:     id,
		Kudos:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}

func (h *Handlers) userError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
