package contacts

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"esign-backend/internal/shared/server/middleware"
	"esign-backend/internal/shared/server/respond"
)

// Handler exposes the contact book over HTTP.
type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches contact routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contacts", h.create)
	rg.GET("/contacts", h.list)
	rg.POST("/contact-groups", h.createGroup)
}

type createContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) create(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "email or phone required", nil)
		return
	}

	contact := Contact{
		ID:        uuid.NewString(),
		OwnerID:   callerID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Repo.Create(c.Request.Context(), contact); err != nil {
		h.respondError(c, err, "failed to create contact")
		return
	}
	respond.JSON(c, http.StatusCreated, contact)
}

func (h *Handler) list(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	out, err := h.Repo.ListByOwner(c.Request.Context(), callerID)
	if err != nil {
		h.respondError(c, err, "failed to list contacts")
		return
	}
	if out == nil {
		out = []Contact{}
	}
	respond.OK(c, out)
}

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

func (h *Handler) createGroup(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "invalid request body", nil)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "group name required", nil)
		return
	}

	// Members must belong to the caller's contact book.
	members, err := h.Repo.GetByIDs(c.Request.Context(), req.MemberIDs)
	if err != nil {
		h.respondError(c, err, "failed to resolve group members")
		return
	}
	if len(members) != len(req.MemberIDs) {
		respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "unknown contact in member list", nil)
		return
	}
	for _, member := range members {
		if member.OwnerID != callerID {
			respond.Error(c, http.StatusBadRequest, respond.CodeWrongInput, "unknown contact in member list", nil)
			return
		}
	}

	group := Group{
		ID:        uuid.NewString(),
		OwnerID:   callerID,
		Name:      name,
		MemberIDs: req.MemberIDs,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Repo.CreateGroup(c.Request.Context(), group); err != nil {
		h.respondError(c, err, "failed to create group")
		return
	}
	respond.JSON(c, http.StatusCreated, group)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, err.Error(), nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, fallback, nil)
}
