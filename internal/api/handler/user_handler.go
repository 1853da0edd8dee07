package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userstore/user-service/internal/api/metrics"
	"github.com/userstore/user-service/internal/auth/integrity"
	"github.com/userstore/user-service/internal/auth/token"
	"github.com/userstore/user-service/internal/core/domain"
	"github.com/userstore/user-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations. Token and role
// checks run in middleware before any of these methods; the handler owns
// body parsing, validation, the integrity-hash check on updates, and the
// mapping of service results onto the wire.
type UserHandler struct {
	service ports.UserService
	hasher  *integrity.Hasher
	audit   ports.AuditSink
	log     zerolog.Logger
}

func NewUserHandler(service ports.UserService, hasher *integrity.Hasher, audit ports.AuditSink, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		hasher:  hasher,
		audit:   audit,
		log:     log,
	}
}

// Get returns one user by id with a fresh integrity hash attached.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (hex ObjectID)"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user, h.hasher))
}

// Save creates a new user record.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveUserRequest  true  "User details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /user [post]
func (h *UserHandler) Save(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req saveUserRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrJSONParse, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Save(c.Request().Context(), toSaveUser(req))
	if err != nil {
		return err
	}

	h.recordMutation(claims, domain.AuditActionSave, user.ID)
	return c.JSON(http.StatusOK, toUserResponse(*user, h.hasher))
}

// Update applies a full-record update after verifying the integrity hash.
// A request whose hid does not match its own name and email is treated as
// an authorization failure, not a shape failure: the payload cannot have
// come from a server response.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  updateUserRequest  true  "Updated record with round-tripped hid"
// @Success      200
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /user [put]
func (h *UserHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrJSONParse, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !h.hasher.Verify(req.Name, req.Email, req.Hid) {
		h.log.Warn().
			Str("subject", claims.Subject).
			Str("role", string(claims.Role)).
			Str("user_id", req.ID).
			Msg("integrity hash mismatch on update")
		return domain.ErrInvalidHash
	}

	if err := h.service.Update(c.Request().Context(), toUpdateInput(req)); err != nil {
		return err
	}

	h.recordMutation(claims, domain.AuditActionUpdate, req.ID)
	return c.NoContent(http.StatusOK)
}

// Search returns all users matching the given criteria, each with a fresh
// integrity hash attached.
//
// @Summary      Search users
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      searchUsersRequest  false  "Optional filters"
// @Success      200   {array}   userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /user/search [post]
func (h *UserHandler) Search(c echo.Context) error {
	var req searchUsersRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrJSONParse, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	users, err := h.service.Search(c.Request().Context(), toSearchCriteria(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users, h.hasher))
}

// Counts returns the number of users per gender.
//
// @Summary      Count users by gender
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   groupCountResponse
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /user/counts [get]
func (h *UserHandler) Counts(c echo.Context) error {
	counts, err := h.service.CountsByGender(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCountsResponse(counts))
}

// Remove deletes a user by id. The delete is blind: removing an id that is
// already gone still succeeds.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id (hex ObjectID)"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /user/{id} [delete]
func (h *UserHandler) Remove(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.service.Remove(c.Request().Context(), id); err != nil {
		return err
	}

	h.recordMutation(claims, domain.AuditActionRemove, id)
	return c.NoContent(http.StatusOK)
}

// Download streams every stored user as one JSON array. Records that fail
// to serialise are skipped and logged, never surfaced to the client; the
// array on the wire is always valid JSON.
//
// @Summary      Bulk download all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /user/download [get]
func (h *UserHandler) Download(c echo.Context) error {
	ctx := c.Request().Context()

	stream, err := h.service.Download(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stream.Close(ctx); cerr != nil {
			h.log.Warn().Err(cerr).Msg("closing user stream")
		}
	}()

	start := time.Now()
	outcome := "ok"

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	resp.WriteHeader(http.StatusOK)

	if _, err := resp.Write([]byte{'['}); err != nil {
		return err
	}

	written := 0
	for stream.Next(ctx) {
		data, merr := json.Marshal(stream.User())
		if merr != nil {
			h.log.Warn().Err(merr).Msg("skipping unserialisable user record")
			continue
		}
		if written > 0 {
			if _, err := resp.Write([]byte{','}); err != nil {
				return err
			}
		}
		if _, err := resp.Write(data); err != nil {
			return err
		}
		written++
		resp.Flush()
	}
	if serr := stream.Err(); serr != nil {
		// The opening bracket is already on the wire, so the status cannot
		// change; close the array and record the truncation server-side.
		h.log.Error().Err(serr).Int("written", written).Msg("user stream aborted mid-download")
		outcome = "error"
	}

	if _, err := resp.Write([]byte{']'}); err != nil {
		return err
	}
	resp.Flush()

	metrics.DownloadedUsersTotal.Add(float64(written))
	metrics.DownloadDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return nil
}

func (h *UserHandler) recordMutation(claims *token.Claims, action domain.AuditAction, targetID string) {
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(ports.AuditEventInput{
		Subject:  claims.Subject,
		Role:     claims.Role,
		Action:   action,
		TargetID: targetID,
		Outcome:  domain.AuditOutcomeOK,
	})
}
