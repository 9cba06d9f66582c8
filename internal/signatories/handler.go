package signatories

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"esign-backend/internal/shared/server/middleware"
	"esign-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches signatory routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/signatories", h.add)
	rg.GET("/documents/:id/signatories", h.list)
	rg.POST("/documents/:id/sign-order", h.bulkSetOrder)
	rg.PATCH("/signatories/:id", h.update)
	rg.DELETE("/signatories/:id", h.remove)
}

type addRequest struct {
	ContactID string `json:"contactId"`
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	IsVisible *bool  `json:"isVisible"`
}

func (h *Handler) add(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}

	sig, err := h.Svc.Add(c.Request.Context(), documentID, callerID, AddInput{
		ContactID: req.ContactID,
		UserID:    req.UserID,
		Role:      req.Role,
		IsVisible: req.IsVisible,
	})
	if err != nil {
		respondError(c, err, "failed to add signatory")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(sig))
}

func (h *Handler) list(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	sigs, err := h.Svc.ListByDocument(c.Request.Context(), documentID, callerID)
	if err != nil {
		respondError(c, err, "failed to list signatories")
		return
	}

	resp := make([]SignatoryResponse, 0, len(sigs))
	for _, sig := range sigs {
		resp = append(resp, toResponse(sig))
	}
	respond.OK(c, resp)
}

type updateRequest struct {
	SigningStatus  *string `json:"signingStatus"`
	ReadStatus     *string `json:"readStatus"`
	IsVisible      *bool   `json:"isVisible"`
	Role           *string `json:"role"`
	SignOrderQueue *int    `json:"signOrderQueue"`
}

func (h *Handler) update(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	signatoryID := c.Param("id")
	c.Set("signatoryId", signatoryID)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}

	input := UpdateInput{
		IsVisible:      req.IsVisible,
		Role:           req.Role,
		SignOrderQueue: req.SignOrderQueue,
	}
	if req.SigningStatus != nil {
		status := SigningStatus(*req.SigningStatus)
		input.Signing = &status
	}
	if req.ReadStatus != nil {
		status := ReadStatus(*req.ReadStatus)
		input.Read = &status
	}

	sig, err := h.Svc.Update(c.Request.Context(), signatoryID, callerID, input)
	if err != nil {
		respondError(c, err, "failed to update signatory")
		return
	}
	respond.OK(c, toResponse(sig))
}

func (h *Handler) remove(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	signatoryID := c.Param("id")
	c.Set("signatoryId", signatoryID)

	if err := h.Svc.Remove(c.Request.Context(), signatoryID, callerID); err != nil {
		respondError(c, err, "failed to remove signatory")
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

type bulkSetOrderRequest struct {
	SignOrderQueue *int `json:"signOrderQueue"`
}

func (h *Handler) bulkSetOrder(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req bulkSetOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SignOrderQueue == nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "signOrderQueue is required", nil)
		return
	}

	if err := h.Svc.BulkSetOrder(c.Request.Context(), documentID, callerID, *req.SignOrderQueue); err != nil {
		respondError(c, err, "failed to update sign order")
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrWrongInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, respond.CodeConflict, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
