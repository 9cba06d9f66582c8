package sharing

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"esign-backend/internal/contacts"
	"esign-backend/internal/documents"
	"esign-backend/internal/identity"
	"esign-backend/internal/queue"
	"esign-backend/internal/shared/server/middleware"
	"esign-backend/internal/shared/server/respond"
	"esign-backend/internal/signatories"
)

// Handler wires HTTP handlers to the dispatcher.
type Handler struct {
	Dispatcher *Dispatcher
}

func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{Dispatcher: dispatcher}
}

// RegisterRoutes attaches sharing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/share", h.share)
	rg.GET("/documents/:id/share-history", h.history)
	rg.GET("/documents/:id/signatories/:sid/share-link", h.shareLink)
}

type shareRequest struct {
	SignatoryIDs []string `json:"signatoryIds"`
	Channels     []string `json:"channels"`
	ScheduleAt   *string  `json:"scheduleAt"`
}

func (h *Handler) share(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}

	channels := make([]queue.Channel, 0, len(req.Channels))
	for _, raw := range req.Channels {
		channel := queue.Channel(raw)
		if channel != queue.ChannelEmail && channel != queue.ChannelPhone {
			respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "unknown channel: "+raw, nil)
			return
		}
		channels = append(channels, channel)
	}

	var scheduleAt *time.Time
	if req.ScheduleAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ScheduleAt)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "scheduleAt must be RFC 3339", nil)
			return
		}
		scheduleAt = &parsed
	}

	err := h.Dispatcher.Share(c.Request.Context(), documentID, callerID, req.SignatoryIDs, channels, scheduleAt)
	if err != nil {
		h.respondError(c, err, "failed to share document")
		return
	}
	respond.JSON(c, http.StatusAccepted, gin.H{"ok": true})
}

func (h *Handler) history(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	entries, err := h.Dispatcher.History(c.Request.Context(), documentID, callerID)
	if err != nil {
		h.respondError(c, err, "failed to fetch share history")
		return
	}
	if entries == nil {
		entries = []LedgerEntry{}
	}
	respond.OK(c, entries)
}

func (h *Handler) shareLink(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	link, err := h.Dispatcher.ShareLink(c.Request.Context(), documentID, c.Param("sid"), callerID)
	if err != nil {
		h.respondError(c, err, "failed to build share link")
		return
	}
	respond.OK(c, gin.H{"link": link})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrWrongInput), errors.Is(err, identity.ErrNoSMSQuota):
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, err.Error(), nil)
	case errors.Is(err, ErrNotFound),
		errors.Is(err, documents.ErrNotFound),
		errors.Is(err, signatories.ErrNotFound),
		errors.Is(err, contacts.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
