package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
	"almox/internal/domain/movement"
	"almox/internal/infrastructure/http/v1/dto"
	"almox/internal/infrastructure/storage/postgres"
)

// MovementHandler handles HTTP requests for stock movements.
type MovementHandler struct {
	*BaseHandler
	engine *movement.Engine
	audit  *postgres.AuditStore
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, engine *movement.Engine, audit *postgres.AuditStore) *MovementHandler {
	return &MovementHandler{BaseHandler: base, engine: engine, audit: audit}
}

// Register handles POST /movements.
func (h *MovementHandler) Register(c *gin.Context) {
	var req dto.RegisterMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.engine.Register(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get handles GET /movements/:id.
func (h *MovementHandler) Get(c *gin.Context) {
	movementID, ok := h.parseID(c)
	if !ok {
		return
	}

	m, err := h.engine.GetByID(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, m)
}

// List handles GET /movements.
func (h *MovementHandler) List(c *gin.Context) {
	filter := movement.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if t := c.Query("type"); t != "" {
		mt := movement.Type(t)
		filter.Type = &mt
	}
	if active := c.Query("active"); active != "" {
		val := active == "true"
		filter.Active = &val
	}
	if productID := c.Query("productId"); productID != "" {
		if parsed, err := id.Parse(productID); err == nil {
			filter.ProductID = &parsed
		}
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.FromDate = &parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.engine.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"items":  movements,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// Edit handles PUT /movements/:id.
func (h *MovementHandler) Edit(c *gin.Context) {
	movementID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.EditMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	m, err := h.engine.Edit(c.Request.Context(), movementID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, m)
}

// Deactivate handles POST /movements/:id/deactivate.
func (h *MovementHandler) Deactivate(c *gin.Context) {
	movementID, ok := h.parseID(c)
	if !ok {
		return
	}

	m, err := h.engine.Deactivate(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, m)
}

// Reactivate handles POST /movements/:id/reactivate.
func (h *MovementHandler) Reactivate(c *gin.Context) {
	movementID, ok := h.parseID(c)
	if !ok {
		return
	}

	m, err := h.engine.Reactivate(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, m)
}

// Delete handles DELETE /movements/:id.
func (h *MovementHandler) Delete(c *gin.Context) {
	movementID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.engine.Delete(c.Request.Context(), movementID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// History handles GET /movements/:id/history.
func (h *MovementHandler) History(c *gin.Context) {
	movementID, ok := h.parseID(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.audit.GetEntityHistory(c.Request.Context(), "movement", movementID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}

func (h *MovementHandler) parseID(c *gin.Context) (id.ID, bool) {
	movementID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return movementID, true
}

// RegisterRoutes registers movement routes.
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Register)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/history", h.History)
	rg.PUT("/:id", h.Edit)
	rg.POST("/:id/deactivate", h.Deactivate)
	rg.POST("/:id/reactivate", h.Reactivate)
	rg.DELETE("/:id", h.Delete)
}
