package api

import (
	"strings"
	"time"

	"github.com/repartia/api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMyWorkList returns the authenticated user's daily work list,
// shaped by their role flags. An optional date query (2006-01-02)
// defaults to today.
func (h *Handler) GetMyWorkList(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	date := time.Now()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid date", err)
			return
		}
		date = parsed
	}

	entries, err := h.WorkListService.DailyList(c.Request.Context(), tenantID, userID, date)
	if err != nil {
		respondError(c, response.CodeInternal, "work list fetch failed", err)
		return
	}
	response.Success(c, entries)
}
