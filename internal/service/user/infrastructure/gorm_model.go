package infrastructure

import (
	"time"

	"sneakerspot/internal/service/user/domain"
)

type UserModel struct {
	UserID       int64     `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;uniqueIndex;size:255"`
	PasswordHash string    `gorm:"column:password_hash;size:255"`
	FirstName    string    `gorm:"column:first_name;size:100"`
	LastName     string    `gorm:"column:last_name;size:100"`
	Role         string    `gorm:"column:role;size:20;default:customer"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (UserModel) TableName() string { return "users" }

type CartItemModel struct {
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	ProductID int64     `gorm:"column:product_id;primaryKey"`
	Quantity  int       `gorm:"column:quantity"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (CartItemModel) TableName() string { return "cart_items" }

type OrderModel struct {
	OrderID        int64            `gorm:"column:order_id;primaryKey;autoIncrement"`
	UserID         int64            `gorm:"column:user_id;index"`
	Status         string           `gorm:"column:status;size:20"`
	SubtotalAmount float64          `gorm:"column:subtotal_amount"`
	TaxAmount      float64          `gorm:"column:tax_amount"`
	TotalAmount    float64          `gorm:"column:total_amount"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;references:OrderID"`
	CreatedAt      time.Time        `gorm:"column:created_at"`
	UpdatedAt      time.Time        `gorm:"column:updated_at"`
}

func (OrderModel) TableName() string { return "orders" }

type OrderItemModel struct {
	OrderItemID int64   `gorm:"column:order_item_id;primaryKey;autoIncrement"`
	OrderID     int64   `gorm:"column:order_id;index"`
	ProductID   int64   `gorm:"column:product_id"`
	Quantity    int     `gorm:"column:quantity"`
	UnitPrice   float64 `gorm:"column:unit_price"`
	TotalPrice  float64 `gorm:"column:total_price"`
}

func (OrderItemModel) TableName() string { return "order_items" }

type RefreshTokenModel struct {
	TokenHash string    `gorm:"column:token_hash;primaryKey;size:64"`
	UserID    int64     `gorm:"column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }

func toDomainUser(m *UserModel) *domain.User {
	return &domain.User{
		UserID:       m.UserID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainOrder(m *OrderModel) *domain.Order {
	o := &domain.Order{
		OrderID:        m.OrderID,
		UserID:         m.UserID,
		Status:         domain.Status(m.Status),
		SubtotalAmount: m.SubtotalAmount,
		TaxAmount:      m.TaxAmount,
		TotalAmount:    m.TotalAmount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, toDomainOrderItem(&it))
	}
	return o
}

func toDomainOrderItem(m *OrderItemModel) domain.OrderItem {
	return domain.OrderItem{
		OrderItemID: m.OrderItemID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalPrice:  m.TotalPrice,
	}
}
