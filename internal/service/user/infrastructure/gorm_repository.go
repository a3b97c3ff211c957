package infrastructure

import (
	"context"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sneakerspot/internal/service/user/domain"
)

// OpenDB connects to the user database.
func OpenDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// AutoMigrate creates the user, cart, order and token tables when they do
// not exist yet.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&RefreshTokenModel{},
	)
}

// duplicate key, MySQL error 1062
func isDuplicateEntry(err error) bool {
	var mysqlErr *gomysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, userID int64) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *GormUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	m := UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ErrEmailTaken
		}
		return 0, err
	}
	return m.UserID, nil
}

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) Upsert(ctx context.Context, userID, productID int64, quantity int) error {
	m := CartItemModel{UserID: userID, ProductID: productID, Quantity: quantity}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("quantity + ?", quantity)}),
	}).Create(&m).Error
}

func (r *GormCartRepository) List(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	var models []CartItemModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(models))
	for _, m := range models {
		items = append(items, domain.CartItem{
			UserID:    m.UserID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}

func (r *GormCartRepository) Remove(ctx context.Context, userID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItemModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCartItemAbsent
	}
	return nil
}

func (r *GormCartRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartItemModel{})
	return res.RowsAffected, res.Error
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create writes the header and the items in one transaction so a failed item
// insert never leaves an empty order behind.
func (r *GormOrderRepository) Create(ctx context.Context, o *domain.Order) (int64, error) {
	m := OrderModel{
		UserID:         o.UserID,
		Status:         string(o.Status),
		SubtotalAmount: o.SubtotalAmount,
		TaxAmount:      o.TaxAmount,
		TotalAmount:    o.TotalAmount,
	}
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.OrderID, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	var m OrderModel
	err := r.db.WithContext(ctx).Preload("Items").First(&m, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainOrder(&m), nil
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, *toDomainOrder(&models[i]))
	}
	return orders, nil
}

func (r *GormOrderRepository) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var models []OrderItemModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderModel{}).
			Where("order_id = ?", orderID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.ErrOrderNotFound
		}
	}
	items := make([]domain.OrderItem, 0, len(models))
	for i := range models {
		items = append(items, toDomainOrderItem(&models[i]))
	}
	return items, nil
}

// UpdateStatus locks the order row, reads the status it held, then writes the
// new one. Callers get the old status back so the reconciler can derive the
// stock action from the actual transition, not from what it assumed.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) (domain.Status, int64, error) {
	var old domain.Status
	var userID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m OrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "order_id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		old = domain.Status(m.Status)
		userID = m.UserID
		return tx.Model(&OrderModel{}).
			Where("order_id = ?", orderID).
			Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now()}).Error
	})
	if err != nil {
		return "", 0, err
	}
	return old, userID, nil
}

func (r *GormOrderRepository) SalesTotals(ctx context.Context) (int64, float64, error) {
	var result struct {
		Orders  int64
		Revenue float64
	}
	err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("status NOT IN ?", []string{string(domain.StatusCancelled), string(domain.StatusRefunded)}).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Orders, result.Revenue, nil
}
