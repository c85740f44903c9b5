package repository

import (
	"context"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"

	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind the reports screen.
// Pure reads; aggregation happens in SQL, not in Go.
type ReportRepository interface {
	// SalesByDay sums paid orders per day over the window ending at now.
	SalesByDay(ctx context.Context, now time.Time, days int) ([]dto.SalesByDay, error)

	// TopProducts ranks products by revenue across paid orders.
	TopProducts(ctx context.Context, limit int) ([]dto.TopProduct, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesByDay(ctx context.Context, now time.Time, days int) ([]dto.SalesByDay, error) {
	since := now.AddDate(0, 0, -days)

	rows := []struct {
		Day   time.Time
		Total string
	}{}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(order_date) AS day, COALESCE(SUM(total_amount), 0) AS total").
		Where("payment_status = ? AND order_date >= ?", model.PaymentPaid, since).
		Group("DATE(order_date)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.SalesByDay, 0, len(rows))
	for _, row := range rows {
		point := dto.SalesByDay{Day: row.Day.Format("2006-01-02")}
		if err := point.Total.Scan(row.Total); err != nil {
			return nil, err
		}
		out = append(out, point)
	}
	return out, nil
}

func (r *reportRepo) TopProducts(ctx context.Context, limit int) ([]dto.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	rows := []struct {
		ProductID string
		Name      string
		UnitsSold int64
		Revenue   string
	}{}
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.product_id,
			products.name,
			COALESCE(SUM(order_items.quantity), 0) AS units_sold,
			COALESCE(SUM(order_items.subtotal), 0) AS revenue`).
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", model.PaymentPaid).
		Group("order_items.product_id, products.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.TopProduct, 0, len(rows))
	for _, row := range rows {
		top := dto.TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			UnitsSold: row.UnitsSold,
		}
		if err := top.Revenue.Scan(row.Revenue); err != nil {
			return nil, err
		}
		out = append(out, top)
	}
	return out, nil
}
