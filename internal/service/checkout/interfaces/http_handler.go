package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"sneakerspot/internal/service/checkout/application"
	"sneakerspot/internal/service/checkout/domain"
	"sneakerspot/internal/service/checkout/port"
)

type identityKey struct{}

// CheckoutHandler exposes POST /checkout behind bearer authentication.
type CheckoutHandler struct {
	checkout *application.CheckoutService
	verifier port.TokenVerifier
}

func NewCheckoutHandler(checkout *application.CheckoutService, verifier port.TokenVerifier) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, verifier: verifier}
}

func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /checkout", h.requireAuth(http.HandlerFunc(h.handleCheckout)))
}

// requireAuth resolves the bearer token to an identity and stores it on the
// request context.
func (h *CheckoutHandler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		identity, err := h.verifier.Verify(ctx, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, identityKey{}, identity)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func identityFrom(ctx context.Context) *port.Identity {
	identity, _ := ctx.Value(identityKey{}).(*port.Identity)
	return identity
}

func (h *CheckoutHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := identityFrom(ctx)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, errors.New("unauthenticated"))
		return
	}

	result, err := h.checkout.Checkout(ctx, identity, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// writeCheckoutError maps the checkout taxonomy onto HTTP statuses. Upstream
// failures are 503 (retryable), persistence failures 502 (the saga already
// compensated), everything user-caused is 4xx.
func writeCheckoutError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"detail":    insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.Is(err, domain.ErrDuplicateRequest):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, domain.ErrPersistenceFailed):
		writeError(w, http.StatusBadGateway, err)
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
