package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfable/catalog/internal/cache"
	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/internal/event"
	"github.com/shopfable/catalog/internal/repository/memory"
	"github.com/shopfable/catalog/internal/service"
	"github.com/shopfable/catalog/pkg/health"
	pkgkafka "github.com/shopfable/catalog/pkg/kafka"
	"github.com/shopfable/catalog/pkg/middleware"
)

// --- Test fixture ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRouter wires the full handler stack over a fresh in-memory store.
func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	logger := testLogger()

	store := memory.NewStore()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	searchCache := cache.NoopSearchCache{}

	productSvc := service.NewProductService(store.Products(), store.Categories(), store.Tags(), searchCache, producer, logger)
	categorySvc := service.NewCategoryService(store.Categories(), searchCache, producer, logger)
	tagSvc := service.NewTagService(store.Tags(), producer, logger)

	router := NewRouter(productSvc, categorySvc, tagSvc, health.NewHandler(), RouterConfig{
		CORS: middleware.DefaultCORSConfig(),
	}, logger)

	return router, store
}

// seedStore loads the Red Mug / Blue Mug / Red Shirt catalog and returns the
// ids it generated, keyed by name.
func seedStore(t *testing.T, store *memory.Store) map[string]string {
	t.Helper()
	ctx := context.Background()
	ids := make(map[string]string)

	kitchen := domain.Category{ID: "5d0e4a3e-52f1-4f6b-9f0a-0a57cb2e3a01", Name: "Kitchen"}
	apparel := domain.Category{ID: "5d0e4a3e-52f1-4f6b-9f0a-0a57cb2e3a02", Name: "Apparel"}
	require.NoError(t, store.Categories().Create(ctx, &kitchen))
	require.NoError(t, store.Categories().Create(ctx, &apparel))
	ids["Kitchen"] = kitchen.ID
	ids["Apparel"] = apparel.ID

	red := domain.Tag{ID: "9f3b1c2d-1111-4a4a-8b8b-000000000001", Name: "Red"}
	sale := domain.Tag{ID: "9f3b1c2d-1111-4a4a-8b8b-000000000002", Name: "Sale"}
	require.NoError(t, store.Tags().Create(ctx, &red))
	require.NoError(t, store.Tags().Create(ctx, &sale))
	ids["Red"] = red.ID
	ids["Sale"] = sale.ID

	desc := "A ceramic mug in red"
	products := []struct {
		p    domain.Product
		tags []string
	}{
		{domain.Product{ID: "0a0a0a0a-0000-4000-8000-000000000001", Name: "Red Mug", Description: &desc, PriceCents: 1299, StockCount: 5, CategoryID: kitchen.ID}, []string{red.ID, sale.ID}},
		{domain.Product{ID: "0a0a0a0a-0000-4000-8000-000000000002", Name: "Blue Mug", PriceCents: 1199, StockCount: 3, CategoryID: kitchen.ID}, []string{sale.ID}},
		{domain.Product{ID: "0a0a0a0a-0000-4000-8000-000000000003", Name: "Red Shirt", PriceCents: 2499, StockCount: 10, CategoryID: apparel.ID}, []string{red.ID}},
	}
	for _, entry := range products {
		p := entry.p
		require.NoError(t, store.Products().Create(ctx, &p))
		for _, tagID := range entry.tags {
			require.NoError(t, store.Products().AddTag(ctx, p.ID, tagID))
		}
		ids[p.Name] = p.ID
	}

	return ids
}

type searchEnvelope struct {
	Data struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	} `json:"data"`
}

func doSearch(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, searchEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env searchEnvelope
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func productNames(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

// --- Tests ---

func TestSearchEndpoint_NameShaped(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec, env := doSearch(t, router, `{"search": "mug", "category": "Kitchen", "tags": ["Sale"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, env.Data.Count)
	assert.Equal(t, []string{"Blue Mug", "Red Mug"}, productNames(env.Data.Products))
}

func TestSearchEndpoint_EmptyBodyReturnsFullCatalog(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec, env := doSearch(t, router, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Blue Mug", "Red Mug", "Red Shirt"}, productNames(env.Data.Products))
}

func TestSearchEndpoint_ResolvesCategoryAndTags(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec, env := doSearch(t, router, `{"search": "Red Mug"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data.Products, 1)

	p := env.Data.Products[0]
	require.NotNil(t, p.Category)
	assert.Equal(t, "Kitchen", p.Category.Name)
	assert.Equal(t, []string{"Red", "Sale"}, func() []string {
		out := make([]string, len(p.Tags))
		for i, tag := range p.Tags {
			out[i] = tag.Name
		}
		return out
	}())
}

func TestSearchEndpoint_IDShapedAgreesWithNameShaped(t *testing.T) {
	router, store := newTestRouter(t)
	ids := seedStore(t, store)

	_, byName := doSearch(t, router, `{"search": "mug", "category": "Kitchen", "tags": ["Sale"]}`)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/catalog/search?q=mug&category_id="+ids["Kitchen"]+"&tag_id="+ids["Sale"], nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var byID searchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byID))
	assert.Equal(t, productNames(byName.Data.Products), productNames(byID.Data.Products))
}

func TestSearchEndpoint_BareTagIDParamIsNoFilter(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	// A bare ?tag_id= carries no identifier and must not narrow the result.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?tag_id=", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env searchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, []string{"Blue Mug", "Red Mug", "Red Shirt"}, productNames(env.Data.Products))
}

func TestSearchEndpoint_UnknownNamesMatchNothing(t *testing.T) {
	router, store := newTestRouter(t)
	seedStore(t, store)

	rec, env := doSearch(t, router, `{"category": "Garden"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.Data.Count)
	assert.NotNil(t, env.Data.Products)
}

func TestSearchEndpoint_BadJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := doSearch(t, router, `{"search":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint_RejectsNonJSONContentType(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/search", bytes.NewBufferString("search=mug"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
