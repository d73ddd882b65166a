package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopfable/catalog/internal/domain"
	"github.com/shopfable/catalog/internal/service"
	"github.com/shopfable/catalog/pkg/httputil"
)

// SearchHandler handles the catalog search endpoints. The same search runs
// behind two input shapes: a JSON body naming categories and tags, and a
// query-string form carrying resolved identifiers.
type SearchHandler struct {
	products *service.ProductService
	logger   *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(products *service.ProductService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		products: products,
		logger:   logger,
	}
}

// SearchRequest is the JSON request body for the name-shaped search. All
// fields are optional; an empty body returns the full catalog.
type SearchRequest struct {
	Search   string   `json:"search"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// SearchResponse wraps the result set.
type SearchResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// Search handles POST /api/v1/catalog/search. Category and tags are matched
// by name, exactly and case-sensitively.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	criteria := domain.CriteriaByNames(strings.TrimSpace(req.Search), req.Category, req.Tags)

	products, err := h.products.SearchByCriteria(r.Context(), criteria)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SearchResponse{Products: products, Count: len(products)},
	})
}

// SearchByIDs handles GET /api/v1/catalog/search. Filters arrive as query
// parameters carrying identifiers: q, category_id, and repeated tag_id.
func (h *SearchHandler) SearchByIDs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := domain.CriteriaByIDs(
		strings.TrimSpace(q.Get("q")),
		q.Get("category_id"),
		q["tag_id"],
	)

	products, err := h.products.SearchByCriteria(r.Context(), criteria)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SearchResponse{Products: products, Count: len(products)},
	})
}
