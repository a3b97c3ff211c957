package infrastructure

import (
	"context"
	"errors"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"sneakerspot/internal/service/inventory/domain"
)

// GormProductRepository is the MySQL-backed implementation of
// domain.ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// OpenDB opens the inventory database.
func OpenDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// AutoMigrate creates the catalog tables when they do not exist yet.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&BrandModel{}, &ProductModel{})
}

func (r *GormProductRepository) FindByID(ctx context.Context, productID int64) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Preload("Brand").Where("product_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return toDomainProduct(&model), nil
}

func (r *GormProductRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Preload("Brand").Model(&ProductModel{})
	if filter.Brand != "" {
		query = query.Joins("JOIN brands ON brands.brand_id = products.brand_id").
			Where("brands.brand_name = ?", filter.Brand)
	}
	if filter.Search != "" {
		query = query.Where("product_name LIKE ?", "%"+filter.Search+"%")
	}

	var models []ProductModel
	if err := query.Order("product_id").Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, *toDomainProduct(&models[i]))
	}
	return products, nil
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) (int64, error) {
	var brand BrandModel
	if err := r.db.WithContext(ctx).Where("brand_id = ?", p.BrandID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrBrandNotFound
		}
		return 0, err
	}
	model := toProductModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, err
	}
	return model.ProductID, nil
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ?", p.ProductID).
		Updates(map[string]interface{}{
			"product_name":     p.ProductName,
			"description":      p.Description,
			"market_price":     p.MarketPrice,
			"discount_percent": p.DiscountPercent,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock issues the conditional decrement as a single statement and
// uses the affected-row count to detect a lost race. Two concurrent callers
// racing for the last unit cannot both pass: the second one matches no row.
func (r *GormProductRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (int, error) {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the product is missing or stock ran out; read once to tell
		// the two apart. The read is advisory only, the decision was made by
		// the conditional update above.
		var model ProductModel
		err := r.db.WithContext(ctx).Select("quantity").Where("product_id = ?", productID).First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrProductNotFound
		}
		if err != nil {
			return 0, err
		}
		return 0, &domain.InsufficientStockError{
			ProductID: productID,
			Available: model.Quantity,
			Requested: quantity,
		}
	}
	return r.currentStock(ctx, productID)
}

// IncrementStock adds stock back. There is no reservation ledger, so releases
// are accepted without checking against any outstanding reservation.
func (r *GormProductRepository) IncrementStock(ctx context.Context, productID int64, quantity int) (int, error) {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrProductNotFound
	}
	return r.currentStock(ctx, productID)
}

func (r *GormProductRepository) currentStock(ctx context.Context, productID int64) (int, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Select("quantity").Where("product_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrProductNotFound
		}
		return 0, err
	}
	return model.Quantity, nil
}

func (r *GormProductRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var models []BrandModel
	if err := r.db.WithContext(ctx).Order("brand_id").Find(&models).Error; err != nil {
		return nil, err
	}
	brands := make([]domain.Brand, 0, len(models))
	for _, m := range models {
		brands = append(brands, domain.Brand{BrandID: m.BrandID, BrandName: m.BrandName})
	}
	return brands, nil
}

func (r *GormProductRepository) CreateBrand(ctx context.Context, name string) (int64, error) {
	model := BrandModel{BrandName: name}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, err
	}
	return model.BrandID, nil
}

func (r *GormProductRepository) Counts(ctx context.Context) (products, brands, discounted int64, err error) {
	if err = r.db.WithContext(ctx).Model(&ProductModel{}).Count(&products).Error; err != nil {
		return
	}
	if err = r.db.WithContext(ctx).Model(&BrandModel{}).Count(&brands).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&ProductModel{}).Where("discount_percent > 0").Count(&discounted).Error
	return
}
