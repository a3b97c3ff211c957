package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/service/inventory/domain"
)

// StockService owns the three ledger operations. Each is independent and
// non-transactional with respect to the others; atomicity lives inside the
// repository's conditional update.
type StockService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewStockService(repo domain.ProductRepository, tracer trace.Tracer) *StockService {
	return &StockService{repo: repo, tracer: tracer}
}

// ValidateStock reports whether quantity units are on hand. Read-only.
func (s *StockService) ValidateStock(ctx context.Context, productID int64, quantity int) (*domain.StockLevel, error) {
	ctx, span := s.tracer.Start(ctx, "stock.Validate")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", quantity))

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &domain.StockLevel{
		ProductID:    productID,
		Available:    product.Quantity >= quantity,
		CurrentStock: product.Quantity,
	}, nil
}

// ReserveStock atomically claims quantity units, returning the remaining
// stock. Loss of a race surfaces as InsufficientStockError, never as a
// negative quantity.
func (s *StockService) ReserveStock(ctx context.Context, productID int64, quantity int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "stock.Reserve")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", quantity))

	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	remaining, err := s.repo.DecrementStock(ctx, productID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reserve failed")
		return 0, err
	}
	logger.Ctx(ctx).Info().
		Int64("product_id", productID).
		Int("quantity", quantity).
		Int("remaining", remaining).
		Msg("stock reserved")
	return remaining, nil
}

// ReleaseStock returns quantity units to the pool. Succeeds for any existing
// product; there is no ledger to check releases against.
func (s *StockService) ReleaseStock(ctx context.Context, productID int64, quantity int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "stock.Release")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", quantity))

	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	current, err := s.repo.IncrementStock(ctx, productID, quantity)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	logger.Ctx(ctx).Info().
		Int64("product_id", productID).
		Int("quantity", quantity).
		Int("current", current).
		Msg("stock released")
	return current, nil
}
