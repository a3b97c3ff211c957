package application

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"

	"sneakerspot/internal/service/inventory/domain"
)

var errInvalidProduct = errors.New("product name and a positive market price are required")

// CatalogService covers the plain CRUD side of the inventory store.
type CatalogService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewCatalogService(repo domain.ProductRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, tracer: tracer}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetProduct")
	defer span.End()
	return s.repo.FindByID(ctx, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()
	return s.repo.List(ctx, filter)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateProduct")
	defer span.End()
	if p.ProductName == "" || p.MarketPrice <= 0 {
		return 0, errInvalidProduct
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return 0, errors.New("discount_percent must be between 0 and 100")
	}
	return s.repo.Create(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateProduct")
	defer span.End()
	return s.repo.Update(ctx, p)
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListBrands")
	defer span.End()
	return s.repo.ListBrands(ctx)
}

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateBrand")
	defer span.End()
	if name == "" {
		return 0, errors.New("brand_name is required")
	}
	return s.repo.CreateBrand(ctx, name)
}

// InventoryAnalytics mirrors the admin dashboard's inventory statistics.
type InventoryAnalytics struct {
	TotalProducts      int64 `json:"total_products"`
	TotalBrands        int64 `json:"total_brands"`
	DiscountedProducts int64 `json:"discounted_products"`
}

func (s *CatalogService) Analytics(ctx context.Context) (*InventoryAnalytics, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Analytics")
	defer span.End()
	products, brands, discounted, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryAnalytics{
		TotalProducts:      products,
		TotalBrands:        brands,
		DiscountedProducts: discounted,
	}, nil
}
