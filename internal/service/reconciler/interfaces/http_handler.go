package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	checkoutport "sneakerspot/internal/service/checkout/port"
	"sneakerspot/internal/service/reconciler/application"
	"sneakerspot/internal/service/reconciler/domain"
)

// ReconcilerHandler exposes the admin status-update endpoint. Only admin
// tokens pass the middleware; customers never change order statuses.
type ReconcilerHandler struct {
	reconciler *application.ReconcilerService
	verifier   checkoutport.TokenVerifier
}

func NewReconcilerHandler(reconciler *application.ReconcilerService, verifier checkoutport.TokenVerifier) *ReconcilerHandler {
	return &ReconcilerHandler{reconciler: reconciler, verifier: verifier}
}

func (h *ReconcilerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("PUT /orders/{id}/status", h.requireAdmin(http.HandlerFunc(h.handleUpdateStatus)))
}

func (h *ReconcilerHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		identity, err := h.verifier.Verify(ctx, strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}
		if identity.Role != "admin" {
			writeError(w, http.StatusForbidden, errors.New("admin role required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *ReconcilerHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("order id must be an integer"))
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		// Allow the status in a JSON body as well.
		var payload struct {
			Status string `json:"status"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&payload); decodeErr == nil {
			status = payload.Status
		}
	}

	result, err := h.reconciler.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		writeReconcileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeReconcileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
