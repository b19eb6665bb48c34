package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"orfebre/internal/domain/documents"
)

// parseDocumentFilter reads the shared document listing parameters.
// Dates accept RFC 3339 or a plain day (2006-01-02).
func (h *BaseHandler) parseDocumentFilter(c *gin.Context) documents.ListFilter {
	filter := documents.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if from := c.Query("from"); from != "" {
		if parsed, ok := parseDate(from); ok {
			filter.From = parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, ok := parseDate(to); ok {
			filter.To = parsed
		}
	}
	return filter
}

func parseDate(raw string) (time.Time, bool) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.DateOnly, raw); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
