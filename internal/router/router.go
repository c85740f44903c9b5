package router

import (
	"time"

	"github.com/qureshi08/NPF-1/internal/config"
	"github.com/qureshi08/NPF-1/internal/handler"
	"github.com/qureshi08/NPF-1/internal/infra"
	"github.com/qureshi08/NPF-1/internal/middleware"
	"github.com/qureshi08/NPF-1/internal/repository"
	"github.com/qureshi08/NPF-1/internal/service"
	"github.com/qureshi08/NPF-1/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productionRepo := repository.NewProductionRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, dispatcher)
	productSvc := service.NewProductService(productRepo, dispatcher)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, productRepo, customerRepo, txnRepo, movementRepo, dispatcher)
	paymentSvc := service.NewPaymentService(orderRepo, txnRepo, dispatcher)
	financeSvc := service.NewFinanceService(txnRepo, orderRepo, dispatcher)
	customerSvc := service.NewCustomerService(customerRepo, dispatcher)
	supplierSvc := service.NewSupplierService(supplierRepo, dispatcher)
	categorySvc := service.NewCategoryService(categoryRepo)
	productionSvc := service.NewProductionService(productionRepo, orderRepo, dispatcher)
	reportSvc := service.NewReportService(reportRepo, productRepo, orderRepo, customerRepo, txnRepo, productionRepo, rdb, infra.ExportToExcel)
	invoiceSvc := service.NewInvoiceService(orderRepo, cfg)
	auditSvc := service.NewAuditService(auditRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc, inventorySvc)
	ordersH := handler.NewOrdersHandler(orderSvc, paymentSvc, invoiceSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc, categorySvc)
	productionH := handler.NewProductionHandler(productionSvc)
	financeH := handler.NewFinanceHandler(financeSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	notificationsH := handler.NewNotificationsHandler(auditSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/healthz", healthH.Check)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes — capabilities declared per endpoint group
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.PUT("/auth/password", authH.ChangePassword)

		// Catalog reads are open to every authenticated role
		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.Get)
		v1.GET("/products/:id/movements", productsH.Movements)
		v1.GET("/inventory/low-stock", productsH.LowStock)
		v1.GET("/categories", suppliersH.ListCategories)

		products := v1.Group("/products", middleware.RequirePermission(middleware.PermManageCatalog))
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.POST("/:id/stock", productsH.AdjustStock)
		}
		v1.DELETE("/products/:id", middleware.RequirePermission(middleware.PermDeleteRecords), productsH.Delete)

		orders := v1.Group("/orders", middleware.RequirePermission(middleware.PermEditOrders))
		{
			orders.POST("", ordersH.Create)
			orders.PUT("/:id/status", ordersH.UpdateStatus)
			orders.POST("/:id/items", ordersH.AddItem)
			orders.DELETE("/:id/items/:item_id", ordersH.RemoveItem)
			orders.POST("/:id/payments", ordersH.RecordPayment)
			orders.POST("/:id/mark-paid", ordersH.MarkPaid)
		}
		v1.GET("/orders", ordersH.List)
		v1.GET("/orders/:id", ordersH.Get)
		v1.GET("/orders/:id/invoice", ordersH.Invoice)
		v1.DELETE("/orders/:id", middleware.RequirePermission(middleware.PermDeleteRecords), ordersH.Delete)

		customers := v1.Group("/customers", middleware.RequirePermission(middleware.PermEditOrders))
		{
			customers.POST("", customersH.Create)
			customers.PUT("/:id", customersH.Update)
		}
		v1.GET("/customers", customersH.List)
		v1.GET("/customers/:id", customersH.Get)
		v1.DELETE("/customers/:id", middleware.RequirePermission(middleware.PermDeleteRecords), customersH.Delete)

		suppliers := v1.Group("/suppliers", middleware.RequirePermission(middleware.PermManageCatalog))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
		}
		v1.GET("/suppliers", suppliersH.List)
		v1.GET("/suppliers/:id", suppliersH.Get)
		v1.DELETE("/suppliers/:id", middleware.RequirePermission(middleware.PermDeleteRecords), suppliersH.Delete)

		categories := v1.Group("/categories", middleware.RequirePermission(middleware.PermManageCatalog))
		{
			categories.POST("", suppliersH.CreateCategory)
		}
		v1.DELETE("/categories/:id", middleware.RequirePermission(middleware.PermDeleteRecords), suppliersH.DeleteCategory)

		production := v1.Group("/production", middleware.RequirePermission(middleware.PermManageProduction))
		{
			production.POST("", productionH.Create)
			production.GET("", productionH.List)
			production.GET("/:id", productionH.Get)
			production.PUT("/:id", productionH.Update)
		}
		v1.DELETE("/production/:id", middleware.RequirePermission(middleware.PermDeleteRecords), productionH.Delete)

		finance := v1.Group("/finance", middleware.RequirePermission(middleware.PermManageFinance))
		{
			finance.POST("", financeH.Create)
			finance.GET("", financeH.List)
			finance.GET("/summary", financeH.Summary)
			finance.GET("/:id", financeH.Get)
		}
		v1.PUT("/finance/:id", middleware.RequirePermission(middleware.PermDeleteRecords), financeH.Update)
		v1.DELETE("/finance/:id", middleware.RequirePermission(middleware.PermDeleteRecords), financeH.Delete)

		reports := v1.Group("/reports", middleware.RequirePermission(middleware.PermViewReports))
		{
			reports.GET("/sales", reportsH.Sales)
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/export/products", reportsH.ExportProducts)
			reports.GET("/export/orders", reportsH.ExportOrders)
			reports.GET("/export/transactions", reportsH.ExportTransactions)
		}

		v1.GET("/notifications", notificationsH.List)
		v1.POST("/notifications/:id/read", notificationsH.MarkRead)
		v1.POST("/notifications/read-all", notificationsH.MarkAllRead)

		users := v1.Group("/users", middleware.RequirePermission(middleware.PermManageUsers))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id/active", authH.SetUserActive)
		}
		v1.GET("/audit", middleware.RequirePermission(middleware.PermManageUsers), notificationsH.AuditLog)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
