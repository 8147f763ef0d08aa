package inventory

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cellarhub/internal/auth"
	"cellarhub/internal/events"
	"cellarhub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *events.Hub
}

func NewHandler(repo *Repo, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bottles", h.list)
	rg.POST("/bottles", h.create)
	rg.GET("/bottles/:id", h.getOne)
	rg.PATCH("/bottles/:id", h.update)
	rg.PUT("/bottles/:id", h.update)
	rg.DELETE("/bottles/:id", h.remove)
}

// bottleReq doubles as the create and patch body; pointer fields so a patch
// only touches what the client sent.
type bottleReq struct {
	Name          *string                `json:"name"`
	Category      *string                `json:"category"`
	Producer      *string                `json:"producer"`
	Region        *string                `json:"region"`
	Country       *string                `json:"country"`
	WineType      *string                `json:"wine_type"`
	SubType       *string                `json:"sub_type"`
	VintageStocks *[]models.VintageStock `json:"vintage_stocks"`
	StockLevel    *int                   `json:"stock_level"`
	Notes         *string                `json:"notes"`
	Rating        *int                   `json:"rating"`
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var items []models.Bottle
	var err error
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category, ok := models.ParseCategory(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		items, err = h.Repo.ListByCategory(c.Request.Context(), category, claims.UserID)
	} else {
		items, err = h.Repo.List(c.Request.Context(), claims.UserID, "")
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req bottleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if req.Category == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category required"})
		return
	}
	category, ok := models.ParseCategory(*req.Category)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	in := CreateInput{
		Name:     *req.Name,
		Category: category,
		Rating:   req.Rating,
	}
	if req.Producer != nil {
		in.Producer = *req.Producer
	}
	if req.Region != nil {
		in.Region = *req.Region
	}
	if req.Country != nil {
		in.Country = *req.Country
	}
	if req.WineType != nil {
		in.WineType = *req.WineType
	}
	if req.SubType != nil {
		in.SubType = *req.SubType
	}
	if req.Notes != nil {
		in.Notes = *req.Notes
	}
	if req.VintageStocks != nil {
		in.VintageStocks = *req.VintageStocks
	}
	if req.StockLevel != nil {
		in.StockLevel = *req.StockLevel
	}

	b, err := h.Repo.Create(c.Request.Context(), claims.UserID, in)
	if err != nil {
		if IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.broadcast(events.BottleCreated, b)
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if b == nil || b.OwnerID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if existing == nil || existing.OwnerID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req bottleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p := Patch{
		Name:          req.Name,
		Producer:      req.Producer,
		Region:        req.Region,
		Country:       req.Country,
		WineType:      req.WineType,
		SubType:       req.SubType,
		VintageStocks: req.VintageStocks,
		StockLevel:    req.StockLevel,
		Notes:         req.Notes,
		Rating:        req.Rating,
	}
	if req.Category != nil {
		category, ok := models.ParseCategory(*req.Category)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		p.Category = &category
	}

	b, err := h.Repo.Update(c.Request.Context(), id, p)
	if err != nil {
		if IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broadcast(events.BottleUpdated, b)
	c.JSON(http.StatusOK, b)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if existing == nil || existing.OwnerID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	deleted, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := events.BottleEvent{
			Type:     events.BottleDeleted,
			OwnerID:  claims.UserID,
			BottleID: id,
			At:       time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) broadcast(eventType string, b *models.Bottle) {
	if h.Hub == nil || b == nil {
		return
	}
	ev := events.BottleEvent{
		Type:       eventType,
		OwnerID:    b.OwnerID,
		BottleID:   b.ID,
		StockLevel: b.StockLevel,
		At:         time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

func parseID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
