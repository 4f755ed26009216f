package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/inventory_api/internal/service"
	"github.com/GTDGit/inventory_api/internal/utils"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

// ResourceHandler serves the five REST routes of one resource collection.
type ResourceHandler[T any, C any, U any] struct {
	svc service.CRUD[T, C, U]
}

// NewResourceHandler constructs a ResourceHandler.
func NewResourceHandler[T any, C any, U any](svc service.CRUD[T, C, U]) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{svc: svc}
}

// Register mounts the collection under /<resource>.
func (h *ResourceHandler[T, C, U]) Register(r gin.IRouter) {
	g := r.Group("/" + string(h.svc.Resource()))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /<resource>
func (h *ResourceHandler[T, C, U]) List(c *gin.Context) {
	params, err := listquery.Parse(c.Request.URL.Query(), h.svc.FilterKeys()...)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.JSON(c, http.StatusOK, page)
}

// Get handles GET /<resource>/:id
func (h *ResourceHandler[T, C, U]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.JSON(c, http.StatusOK, item)
}

// Create handles POST /<resource>
func (h *ResourceHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	item, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.JSON(c, http.StatusCreated, item)
}

// Update handles PATCH /<resource>/:id
func (h *ResourceHandler[T, C, U]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	item, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.JSON(c, http.StatusOK, item)
}

// Delete handles DELETE /<resource>/:id
func (h *ResourceHandler[T, C, U]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, http.StatusOK, fmt.Sprintf("%s %d deleted", h.svc.Resource(), id))
}

// pathID parses the :id segment, writing a 400 when it is not a positive integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
