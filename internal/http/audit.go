package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/entities"
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{
		reader: reader,
	}
}

// GetAuditEvents returns paginated audit events as JSON, newest first.
// GET /audit?limit=&offset=&type=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	eventType := entities.AuditEventType(c.Query("type"))
	switch eventType {
	case "", entities.AuditEventCreate, entities.AuditEventUpdate, entities.AuditEventDelete, entities.AuditEventAuth:
	default:
		respondBadRequest(c, "invalid type")
		return
	}

	events, total, err := ac.reader.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	respondOK(c, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
