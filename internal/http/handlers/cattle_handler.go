// Cattle HTTP handlers.
//
// This file exposes the herd registry endpoints:
//   - POST   /cattle          (register)
//   - GET    /cattle          (list, paginated, search + status filter)
//   - GET    /cattle/:id      (detail)
//   - PUT    /cattle/:id      (update)
//   - DELETE /cattle/:id      (remove, soft delete)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/services"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// CattleRequest is the JSON payload for registering or updating an animal.
type CattleRequest struct {
	Name        string          `json:"name" binding:"required" example:"Bella"`
	TagNumber   string          `json:"tag_number" binding:"required" example:"NL-4211"`
	Breed       string          `json:"breed" binding:"required" example:"Holstein"`
	DateOfBirth string          `json:"date_of_birth" binding:"required" example:"2021-03-01"`
	Gender      string          `json:"gender" binding:"required" example:"F"`
	Weight      decimal.Decimal `json:"weight" example:"420.5"`
	Status      string          `json:"status,omitempty" example:"active"`
	Notes       string          `json:"notes,omitempty"`
}

func (r CattleRequest) toInput() (services.CattleInput, bool) {
	dob, ok := utils.ParseDate(r.DateOfBirth)
	if !ok {
		return services.CattleInput{}, false
	}
	return services.CattleInput{
		Name:        r.Name,
		TagNumber:   r.TagNumber,
		Breed:       r.Breed,
		DateOfBirth: dob,
		Gender:      r.Gender,
		Weight:      r.Weight,
		Status:      r.Status,
		Notes:       r.Notes,
	}, true
}

// ListCattleResponse wraps a page of animals and pagination information.
type ListCattleResponse struct {
	Cattle     []domain.Cattle `json:"cattle"`
	Pagination Pagination      `json:"pagination"`
}

// CreateCattle registers a new animal for the current user.
func (h *Handlers) CreateCattle(c *gin.Context) {
	var req CattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDate := req.toInput()
	if !okDate {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date_of_birth must be YYYY-MM-DD")
		return
	}

	animal, err := h.herd.Register(c.Request.Context(), userID(c), clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusCreated, animal)
}

// ListCattle returns a page of the user's herd. Supports ?search= over tag
// and name plus ?status= lifecycle filtering.
func (h *Handlers) ListCattle(c *gin.Context) {
	page, pageSize := clampPagination(c)
	f := repo.CattleFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.TrimSpace(c.Query("status")),
	}

	items, total, err := h.herd.ListPage(c.Request.Context(), userID(c), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list cattle")
		return
	}
	ok(c, http.StatusOK, ListCattleResponse{
		Cattle:     items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetCattle returns one animal by id.
func (h *Handlers) GetCattle(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cattle id must be a UUID")
		return
	}
	animal, err := h.herd.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, animal)
}

// UpdateCattle edits an animal's attributes, including lifecycle status.
func (h *Handlers) UpdateCattle(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cattle id must be a UUID")
		return
	}
	var req CattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDate := req.toInput()
	if !okDate {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date_of_birth must be YYYY-MM-DD")
		return
	}

	animal, err := h.herd.Update(c.Request.Context(), userID(c), id, clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, animal)
}

// DeleteCattle soft-deletes one animal.
func (h *Handlers) DeleteCattle(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cattle id must be a UUID")
		return
	}
	if err := h.herd.Remove(c.Request.Context(), userID(c), id, clientIP(c)); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}
