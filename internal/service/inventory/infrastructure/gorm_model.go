package infrastructure

import (
	"time"

	"sneakerspot/internal/service/inventory/domain"
)

// ProductModel maps to inventory_database.products.
type ProductModel struct {
	ProductID       int64   `gorm:"column:product_id;primaryKey;autoIncrement"`
	BrandID         int64   `gorm:"column:brand_id"`
	ProductName     string  `gorm:"column:product_name"`
	Description     string  `gorm:"column:description"`
	MarketPrice     float64 `gorm:"column:market_price"`
	DiscountPercent float64 `gorm:"column:discount_percent"`
	Quantity        int     `gorm:"column:quantity"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Brand BrandModel `gorm:"foreignKey:BrandID;references:BrandID"`
}

func (ProductModel) TableName() string { return "products" }

type BrandModel struct {
	BrandID   int64  `gorm:"column:brand_id;primaryKey;autoIncrement"`
	BrandName string `gorm:"column:brand_name"`
}

func (BrandModel) TableName() string { return "brands" }

func toDomainProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ProductID:       m.ProductID,
		BrandID:         m.BrandID,
		BrandName:       m.Brand.BrandName,
		ProductName:     m.ProductName,
		Description:     m.Description,
		MarketPrice:     m.MarketPrice,
		DiscountPercent: m.DiscountPercent,
		Quantity:        m.Quantity,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toProductModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ProductID:       p.ProductID,
		BrandID:         p.BrandID,
		ProductName:     p.ProductName,
		Description:     p.Description,
		MarketPrice:     p.MarketPrice,
		DiscountPercent: p.DiscountPercent,
		Quantity:        p.Quantity,
	}
}
