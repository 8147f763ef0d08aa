package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellarhub/pkg/models"
)

func setupRouter(t *testing.T, sourcePath string) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(setupDB(t))
	h := NewHandler(repo, sourcePath, nil)

	router := gin.New()
	h.RegisterPublicRoutes(router.Group(""))
	h.RegisterProtectedRoutes(router.Group(""))
	return router, repo
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type listResp struct {
	Total int                   `json:"total"`
	Items []models.CatalogEntry `json:"items"`
}

func TestSearchEndpoint_EmptyQueryReturnsNothing(t *testing.T) {
	router, repo := setupRouter(t, "")
	seed(t, repo, models.CatalogEntry{Name: "Barolo", Category: models.CategoryRed})

	w := get(router, "/catalog/search")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
}

func TestSearchEndpoint_MatchesSubstring(t *testing.T) {
	router, repo := setupRouter(t, "")
	seed(t, repo,
		models.CatalogEntry{Name: "Château ABC", Producer: "X", Category: models.CategoryRed},
		models.CatalogEntry{Name: "Porter", Producer: "Brew Co", Category: models.CategoryBeer},
	)

	w := get(router, "/catalog/search?q=abc")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Château ABC", resp.Items[0].Name)
}

func TestListEndpoint_ReturnsEverything(t *testing.T) {
	router, repo := setupRouter(t, "")
	seed(t, repo,
		models.CatalogEntry{Name: "One", Category: models.CategoryRed},
		models.CatalogEntry{Name: "Two", Category: models.CategoryWhite},
	)

	w := get(router, "/catalog")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestRefreshEndpoint_ReloadsFromSource(t *testing.T) {
	path := writeSource(t, `name,category,producer,region,country
Barolo,Red,,,
Chablis,White,,,
`)
	router, repo := setupRouter(t, path)

	req := httptest.NewRequest(http.MethodPost, "/catalog/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string `json:"status"`
		Entries int    `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "refreshed", resp.Status)
	assert.Equal(t, 2, resp.Entries)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRefreshEndpoint_FailureKeepsServingOldCatalog(t *testing.T) {
	dir := t.TempDir() // unreadable as a CSV stream
	router, repo := setupRouter(t, dir)
	seed(t, repo, models.CatalogEntry{Name: "Keeper", Category: models.CategoryRed})

	req := httptest.NewRequest(http.MethodPost, "/catalog/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Keeper", all[0].Name)
}
