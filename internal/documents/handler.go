package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"esign-backend/internal/shared/server/middleware"
	"esign-backend/internal/shared/server/respond"
	"esign-backend/internal/signatories"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PATCH("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.remove)
	rg.GET("/documents/:id/inputs", h.getInputs)
	rg.POST("/documents/:id/inputs", h.addInput)
}

type createRequest struct {
	Title     string `json:"title"`
	IsPrivate bool   `json:"isPrivate"`
}

func (h *Handler) create(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}

	doc, err := h.Svc.Create(c.Request.Context(), callerID, req.Title, req.IsPrivate)
	if err != nil {
		h.respondError(c, err, "failed to create document")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	spec := SearchSpec{Query: c.Query("q"), Limit: 20}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			spec.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			spec.Offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), callerID, spec)
	if err != nil {
		h.respondError(c, err, "failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	view, err := h.Svc.Get(c.Request.Context(), documentID, callerID)
	if err != nil {
		h.respondError(c, err, "failed to fetch document")
		return
	}
	respond.OK(c, toViewResponse(view))
}

type updateRequest struct {
	Title     *string `json:"title"`
	IsPrivate *bool   `json:"isPrivate"`
	Status    *string `json:"status"`
}

func (h *Handler) update(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}

	input := UpdateInput{Title: req.Title, IsPrivate: req.IsPrivate}
	if req.Status != nil {
		status := Status(*req.Status)
		input.Status = &status
	}

	doc, err := h.Svc.UpdateSettings(c.Request.Context(), documentID, callerID, input)
	if err != nil {
		h.respondError(c, err, "failed to update document")
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	if err := h.Svc.Delete(c.Request.Context(), documentID, callerID); err != nil {
		h.respondError(c, err, "failed to delete document")
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) getInputs(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	fields, err := h.Svc.GetInputs(c.Request.Context(), documentID, callerID, c.Query("signatoryId"))
	if err != nil {
		h.respondError(c, err, "failed to fetch inputs")
		return
	}

	resp := make([]InputFieldResponse, 0, len(fields))
	for _, field := range fields {
		resp = append(resp, toFieldResponse(field))
	}
	respond.OK(c, resp)
}

type addInputRequest struct {
	Label             string   `json:"label"`
	Kind              string   `json:"kind"`
	ContactRecipients []string `json:"contactRecipients"`
	GroupRecipients   []string `json:"groupRecipients"`
}

func (h *Handler) addInput(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	var req addInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}

	field, err := h.Svc.AddInput(c.Request.Context(), documentID, callerID, FieldInput{
		Label:             req.Label,
		Kind:              req.Kind,
		ContactRecipients: req.ContactRecipients,
		GroupRecipients:   req.GroupRecipients,
	})
	if err != nil {
		h.respondError(c, err, "failed to add input field")
		return
	}
	respond.JSON(c, http.StatusCreated, toFieldResponse(field))
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrWrongInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, err.Error(), nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, signatories.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
	}
}
