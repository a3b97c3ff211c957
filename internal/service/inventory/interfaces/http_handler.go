package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"sneakerspot/internal/service/inventory/application"
	"sneakerspot/internal/service/inventory/domain"
)

// InventoryHandler exposes the stock ledger and the catalog over HTTP.
type InventoryHandler struct {
	stock   *application.StockService
	catalog *application.CatalogService
}

func NewInventoryHandler(stock *application.StockService, catalog *application.CatalogService) *InventoryHandler {
	return &InventoryHandler{stock: stock, catalog: catalog}
}

func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /stock/validate", h.handleValidateStock)
	mux.HandleFunc("POST /stock/reserve", h.handleReserveStock)
	mux.HandleFunc("POST /stock/release", h.handleReleaseStock)

	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("POST /products", h.handleCreateProduct)
	mux.HandleFunc("GET /products/{id}", h.handleGetProduct)
	mux.HandleFunc("PUT /products/{id}", h.handleUpdateProduct)

	mux.HandleFunc("GET /brands", h.handleListBrands)
	mux.HandleFunc("POST /brands", h.handleCreateBrand)

	mux.HandleFunc("GET /analytics/inventory", h.handleAnalytics)
}

// stockParams reads the product_id/quantity pair shared by all three ledger
// endpoints.
func stockParams(r *http.Request) (int64, int, error) {
	productID, err := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	if err != nil {
		return 0, 0, errors.New("product_id must be an integer")
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		return 0, 0, errors.New("quantity must be an integer")
	}
	return productID, quantity, nil
}

func (h *InventoryHandler) handleValidateStock(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	productID, quantity, err := stockParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	level, err := h.stock.ValidateStock(ctx, productID, quantity)
	if err != nil {
		writeStockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"available":     level.Available,
		"current_stock": level.CurrentStock,
	})
}

func (h *InventoryHandler) handleReserveStock(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	productID, quantity, err := stockParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	remaining, err := h.stock.ReserveStock(ctx, productID, quantity)
	if err != nil {
		writeStockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"remaining_stock": remaining})
}

func (h *InventoryHandler) handleReleaseStock(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	productID, quantity, err := stockParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	current, err := h.stock.ReleaseStock(ctx, productID, quantity)
	if err != nil {
		writeStockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"current_stock": current})
}

type productPayload struct {
	BrandID         int64   `json:"brand_id"`
	ProductName     string  `json:"product_name"`
	Description     string  `json:"description"`
	MarketPrice     float64 `json:"market_price"`
	DiscountPercent float64 `json:"discount_percent"`
	Quantity        int     `json:"quantity"`
}

func productJSON(p *domain.Product) map[string]interface{} {
	return map[string]interface{}{
		"product_id":       p.ProductID,
		"brand_id":         p.BrandID,
		"brand_name":       p.BrandName,
		"product_name":     p.ProductName,
		"description":      p.Description,
		"market_price":     p.MarketPrice,
		"discount_percent": p.DiscountPercent,
		"quantity":         p.Quantity,
	}
}

func (h *InventoryHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("product id must be an integer"))
		return
	}
	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		writeStockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productJSON(product))
}

func (h *InventoryHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	filter := domain.ListFilter{
		Brand:  r.URL.Query().Get("brand"),
		Search: r.URL.Query().Get("search"),
	}
	products, err := h.catalog.ListProducts(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		out = append(out, productJSON(&products[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InventoryHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	id, err := h.catalog.CreateProduct(ctx, &domain.Product{
		BrandID:         payload.BrandID,
		ProductName:     payload.ProductName,
		Description:     payload.Description,
		MarketPrice:     payload.MarketPrice,
		DiscountPercent: payload.DiscountPercent,
		Quantity:        payload.Quantity,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"product_id": id})
}

func (h *InventoryHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("product id must be an integer"))
		return
	}
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	err = h.catalog.UpdateProduct(ctx, &domain.Product{
		ProductID:       productID,
		ProductName:     payload.ProductName,
		Description:     payload.Description,
		MarketPrice:     payload.MarketPrice,
		DiscountPercent: payload.DiscountPercent,
	})
	if err != nil {
		writeStockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "product updated"})
}

func (h *InventoryHandler) handleListBrands(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	brands, err := h.catalog.ListBrands(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(brands))
	for _, b := range brands {
		out = append(out, map[string]interface{}{"brand_id": b.BrandID, "brand_name": b.BrandName})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InventoryHandler) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var payload struct {
		BrandName string `json:"brand_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	id, err := h.catalog.CreateBrand(ctx, payload.BrandName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"brand_id": id})
}

func (h *InventoryHandler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	analytics, err := h.catalog.Analytics(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// writeStockError maps ledger errors onto HTTP statuses. The insufficient
// case carries available/requested so callers can report the shortfall.
func writeStockError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"detail":    insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func extract(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
