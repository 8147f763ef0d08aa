package catalog

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cellarhub/internal/events"
)

type Handler struct {
	Repo       *Repo
	SourcePath string
	Hub        *events.Hub
}

func NewHandler(repo *Repo, sourcePath string, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, SourcePath: sourcePath, Hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.list)
	rg.GET("/catalog/search", h.search)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/catalog/refresh", h.refresh)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) search(c *gin.Context) {
	items, err := h.Repo.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	n, err := h.Repo.Refresh(c.Request.Context(), h.SourcePath)
	if err != nil {
		// details stay in the log; the previous catalog is still being served
		log.Printf("[catalog] refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}

	if h.Hub != nil {
		ev := events.CatalogEvent{
			Type:    events.CatalogReload,
			Entries: n,
			At:      time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "refreshed",
		"entries": n,
	})
}
