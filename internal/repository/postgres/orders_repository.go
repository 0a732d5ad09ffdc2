package postgres

import (
	"context"
	"fmt"
	"npsSurvey/domain"
	"time"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// FindDeliveredBetween returns orders with from <= delivery_time < to, by order id.
func (r *OrdersRepository) FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Order
	err := r.DB.WithContext(ctx).
		Where("delivery_time >= ? AND delivery_time < ?", from, to).
		Order("order_id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find delivered orders: %w", err)
	}

	return orders, nil
}

// FindItemCategories returns one category per item, duplicates included.
func (r *OrdersRepository) FindItemCategories(ctx context.Context, orderID int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var categories []string
	err := r.DB.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("order_id = ?", orderID).
		Order("id").
		Pluck("product_category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}

	return categories, nil
}
