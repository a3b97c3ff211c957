package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/service/user/domain"
)

type CartService struct {
	carts  domain.CartRepository
	tracer trace.Tracer
}

func NewCartService(carts domain.CartRepository, tracer trace.Tracer) *CartService {
	return &CartService{carts: carts, tracer: tracer}
}

func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", quantity),
	)
	return s.carts.Upsert(ctx, userID, productID, quantity)
}

func (s *CartService) GetCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()
	return s.carts.List(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	return s.carts.Remove(ctx, userID, productID)
}

// ClearCart empties the cart after a successful checkout.
func (s *CartService) ClearCart(ctx context.Context, userID int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.ClearCart")
	defer span.End()
	removed, err := s.carts.Clear(ctx, userID)
	if err != nil {
		return 0, err
	}
	logger.Ctx(ctx).Debug().Int64("user_id", userID).Int64("removed", removed).Msg("cart cleared")
	return removed, nil
}
