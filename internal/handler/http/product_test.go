package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfable/catalog/internal/domain"
)

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProductEndpoint_CreateAndGet(t *testing.T) {
	router, store := newTestRouter(t)
	ids := seedStore(t, store)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", `{
		"name": "Green Mug",
		"description": "A ceramic mug in green",
		"price_cents": 1399,
		"stock_count": 7,
		"category_id": "`+ids["Kitchen"]+`",
		"tag_ids": ["`+ids["Sale"]+`"]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Green Mug", created.Data.Name)
	require.Len(t, created.Data.Tags, 1)
	assert.Equal(t, "Sale", created.Data.Tags[0].Name)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/"+created.Data.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductEndpoint_CreateDuplicateNameConflicts(t *testing.T) {
	router, store := newTestRouter(t)
	ids := seedStore(t, store)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", `{
		"name": "red mug",
		"price_cents": 100,
		"stock_count": 1,
		"category_id": "`+ids["Kitchen"]+`"
	}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductEndpoint_CreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", `{
		"name": "Broken",
		"price_cents": 0,
		"stock_count": 0,
		"category_id": "not-a-uuid"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "PriceCents")
	assert.Contains(t, resp.Error.Fields, "CategoryID")
}

func TestProductEndpoint_CreateUnknownCategory(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", `{
		"name": "Orphan",
		"price_cents": 100,
		"stock_count": 1,
		"category_id": "11111111-2222-4333-8444-555555555555"
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductEndpoint_GetInvalidUUID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductEndpoint_GetMissing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products/11111111-2222-4333-8444-555555555555", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductEndpoint_List(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products?page=1&per_page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Data       []domain.Product `json:"data"`
			TotalCount int              `json:"total_count"`
			TotalPages int              `json:"total_pages"`
			HasNext    bool             `json:"has_next"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Data, 2)
	assert.Equal(t, 3, resp.Data.TotalCount)
	assert.True(t, resp.Data.HasNext)
}

func TestProductEndpoint_Delete(t *testing.T) {
	router, store := newTestRouter(t)
	ids := seedStore(t, store)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/products/"+ids["Red Mug"], "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/"+ids["Red Mug"], "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Tags outlive the products that carried them.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/tags/"+ids["Red"], "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoryEndpoint_CreateListDelete(t *testing.T) {
	router, store := newTestRouter(t)
	ids := seedStore(t, store)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", `{"name": "Garden"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/categories", `{"name": "garden"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []domain.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 3)

	// Deleting a category takes its products with it.
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/categories/"+ids["Kitchen"], "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/"+ids["Red Mug"], "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagEndpoint_CreateAndList(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tags", `{"name": "Vintage"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/tags", `{"name": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []domain.Tag `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 3)
}
