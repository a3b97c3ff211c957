package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"sneakerspot/internal/service/user/application"
	"sneakerspot/internal/service/user/domain"
)

// UserHandler exposes users, carts and the order store over HTTP. The cart
// and order endpoints double as the internal API the checkout saga and the
// reconciler call.
type UserHandler struct {
	users  *application.UserService
	carts  *application.CartService
	orders *application.OrderService
}

func NewUserHandler(users *application.UserService, carts *application.CartService, orders *application.OrderService) *UserHandler {
	return &UserHandler{users: users, carts: carts, orders: orders}
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users/register", h.handleRegister)
	mux.HandleFunc("GET /users/{id}", h.handleGetUser)
	mux.HandleFunc("GET /users/{id}/orders", h.handleListOrders)

	mux.HandleFunc("GET /carts/{userID}", h.handleGetCart)
	mux.HandleFunc("POST /carts/{userID}/items", h.handleAddCartItem)
	mux.HandleFunc("DELETE /carts/{userID}/items/{productID}", h.handleRemoveCartItem)
	mux.HandleFunc("DELETE /carts/{userID}", h.handleClearCart)

	mux.HandleFunc("POST /orders", h.handleCreateOrder)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("GET /orders/{id}/items", h.handleOrderItems)
	mux.HandleFunc("PUT /orders/{id}/status", h.handleUpdateStatus)

	mux.HandleFunc("GET /analytics/sales", h.handleSalesAnalytics)
}

func extract(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var payload struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, errors.New("email and password are required"))
		return
	}
	id, err := h.users.Register(ctx, payload.Email, payload.Password, payload.FirstName, payload.LastName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"user_id": id})
}

func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    user.UserID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	})
}

func (h *UserHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]interface{}{
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var payload struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if payload.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("quantity must be positive"))
		return
	}
	if err := h.carts.AddItem(ctx, userID, payload.ProductID, payload.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "item added"})
}

func (h *UserHandler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	productID, err := pathID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.carts.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, domain.ErrCartItemAbsent) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *UserHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	removed, err := h.carts.ClearCart(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

type orderPayload struct {
	UserID         int64   `json:"user_id"`
	SubtotalAmount float64 `json:"subtotal_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalAmount    float64 `json:"total_amount"`
	Items          []struct {
		ProductID  int64   `json:"product_id"`
		Quantity   int     `json:"quantity"`
		UnitPrice  float64 `json:"unit_price"`
		TotalPrice float64 `json:"total_price"`
	} `json:"items"`
}

func (h *UserHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if len(payload.Items) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("order must have at least one item"))
		return
	}
	order := &domain.Order{
		UserID:         payload.UserID,
		Status:         domain.StatusPending,
		SubtotalAmount: payload.SubtotalAmount,
		TaxAmount:      payload.TaxAmount,
		TotalAmount:    payload.TotalAmount,
	}
	for _, it := range payload.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	id, err := h.orders.CreateOrder(ctx, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"order_id": id})
}

func orderJSON(o *domain.Order) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]interface{}{
			"product_id":  it.ProductID,
			"quantity":    it.Quantity,
			"unit_price":  it.UnitPrice,
			"total_price": it.TotalPrice,
		})
	}
	return map[string]interface{}{
		"order_id":        o.OrderID,
		"user_id":         o.UserID,
		"status":          string(o.Status),
		"subtotal_amount": o.SubtotalAmount,
		"tax_amount":      o.TaxAmount,
		"total_amount":    o.TotalAmount,
		"items":           items,
		"created_at":      o.CreatedAt,
	}
}

func (h *UserHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, orderJSON(order))
}

func (h *UserHandler) handleOrderItems(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := h.orders.OrderItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]interface{}{
			"product_id":  it.ProductID,
			"quantity":    it.Quantity,
			"unit_price":  it.UnitPrice,
			"total_price": it.TotalPrice,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	orders, err := h.orders.ListOrders(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUpdateStatus writes the status and echoes the one it replaced. The
// reconciler depends on old_status to derive stock actions from the actual
// transition.
func (h *UserHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	old, userID, err := h.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"old_status": string(old),
		"new_status": string(status),
		"user_id":    userID,
	})
}

func (h *UserHandler) handleSalesAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	analytics, err := h.orders.Analytics(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
