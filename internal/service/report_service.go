package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/redis/go-redis/v9"
)

// ReportService aggregates the reporting screens: the 30-day sales
// series, top sellers, low stock, the dashboard counters, and the
// spreadsheet exports.
type ReportService interface {
	Sales(ctx context.Context) (*dto.SalesReportResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)

	ExportProducts(ctx context.Context) (*bytes.Buffer, error)
	ExportOrders(ctx context.Context) (*bytes.Buffer, error)
	ExportTransactions(ctx context.Context) (*bytes.Buffer, error)
}

// ExcelWriter renders tabular data into a spreadsheet.
type ExcelWriter func(columns []string, rows [][]interface{}) (*bytes.Buffer, error)

const (
	dashboardCacheKey = "cache:dashboard"
	dashboardCacheTTL = time.Minute
)

type reportService struct {
	reportRepo     repository.ReportRepository
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	customerRepo   repository.CustomerRepository
	txnRepo        repository.TransactionRepository
	productionRepo repository.ProductionRepository
	rdb            *redis.Client // nil disables the dashboard cache
	writeExcel     ExcelWriter
}

func NewReportService(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	txnRepo repository.TransactionRepository,
	productionRepo repository.ProductionRepository,
	rdb *redis.Client,
	writeExcel ExcelWriter,
) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		customerRepo:   customerRepo,
		txnRepo:        txnRepo,
		productionRepo: productionRepo,
		rdb:            rdb,
		writeExcel:     writeExcel,
	}
}

func (s *reportService) Sales(ctx context.Context) (*dto.SalesReportResponse, error) {
	byDay, err := s.reportRepo.SalesByDay(ctx, time.Now(), 30)
	if err != nil {
		return nil, err
	}
	top, err := s.reportRepo.TopProducts(ctx, 10)
	if err != nil {
		return nil, err
	}
	low, err := s.productRepo.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesReportResponse{
		SalesByDay:  byDay,
		TopProducts: top,
		LowStock:    make([]dto.ProductResponse, 0, len(low)),
	}
	for i := range low {
		resp.LowStock = append(resp.LowStock, *productToResponse(&low[i]))
	}
	return resp, nil
}

// Dashboard serves the counters behind a short-lived Redis cache.
// Cache reads and writes are best-effort — a Redis hiccup just means a
// fresh set of queries.
func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			cached := &dto.DashboardResponse{}
			if json.Unmarshal(raw, cached) == nil {
				return cached, nil
			}
		}
	}

	now := time.Now()
	resp := &dto.DashboardResponse{}

	var err error
	if resp.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if resp.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if resp.PendingOrders, err = s.orderRepo.CountByStatus(ctx, model.OrderPending); err != nil {
		return nil, err
	}
	if resp.UnpaidOrderCount, err = s.orderRepo.CountByPaymentStatus(ctx, model.PaymentUnpaid); err != nil {
		return nil, err
	}
	if resp.LowStockCount, err = s.productRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if resp.OverdueJobs, err = s.productionRepo.CountOverdue(ctx, now); err != nil {
		return nil, err
	}
	if resp.MonthlyRevenue, err = s.txnRepo.MonthlyIncome(ctx, now); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err()
		}
	}
	return resp, nil
}

// ── Exports ───────────────────────────────────────────────────────────────────

func (s *reportService) ExportProducts(ctx context.Context) (*bytes.Buffer, error) {
	products, _, err := s.productRepo.List(ctx, dto.ProductFilter{Page: 1, Limit: 10000})
	if err != nil {
		return nil, err
	}

	columns := []string{"SKU", "Name", "Category", "Cost Price", "Selling Price", "Stock", "Reorder Level"}
	rows := make([][]interface{}, 0, len(products))
	for i := range products {
		p := &products[i]
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		rows = append(rows, []interface{}{
			p.SKU, p.Name, category,
			p.CostPrice.StringFixed(2), p.SellingPrice.StringFixed(2),
			p.StockQuantity, p.ReorderLevel,
		})
	}
	return s.writeExcel(columns, rows)
}

func (s *reportService) ExportOrders(ctx context.Context) (*bytes.Buffer, error) {
	orders, _, err := s.orderRepo.List(ctx, dto.OrderFilter{Page: 1, Limit: 10000})
	if err != nil {
		return nil, err
	}

	columns := []string{"Order ID", "Customer", "Date", "Status", "Payment Status", "Total"}
	rows := make([][]interface{}, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		customer := ""
		if o.Customer != nil {
			customer = o.Customer.Name
		}
		rows = append(rows, []interface{}{
			shortID(o.ID), customer, o.OrderDate.Format("2006-01-02"),
			o.Status, o.PaymentStatus, o.TotalAmount.StringFixed(2),
		})
	}
	return s.writeExcel(columns, rows)
}

func (s *reportService) ExportTransactions(ctx context.Context) (*bytes.Buffer, error) {
	txns, _, err := s.txnRepo.List(ctx, dto.TransactionFilter{Page: 1, Limit: 10000})
	if err != nil {
		return nil, err
	}

	columns := []string{"Date", "Type", "Category", "Amount", "Description", "Related Order"}
	rows := make([][]interface{}, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		related := ""
		if t.RelatedOrderID != nil {
			related = shortID(*t.RelatedOrderID)
		}
		rows = append(rows, []interface{}{
			t.Date.Format("2006-01-02"), t.Type, t.Category,
			t.Amount.StringFixed(2), desc, related,
		})
	}
	return s.writeExcel(columns, rows)
}
