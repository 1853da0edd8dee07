package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userstore/user-service/internal/core/ports"
)

// AuditHandler exposes the audit trail recorded by the async pipeline.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List returns the most recent audit events, newest first.
//
// @Summary      List recent audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events to return (default 50, cap 500)"
// @Success      200    {array}   auditEventResponse
// @Failure      403    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	// A missing or unparsable limit falls back to the service default.
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.service.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuditResponse(events))
}
