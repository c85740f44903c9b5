package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Sales godoc
// @Summary      Sales report
// @Description  30-day paid sales series, top 10 products by revenue, and the low stock list.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SalesReportResponse
// @Router       /v1/reports/sales [get]
func (h *ReportsHandler) Sales(c *gin.Context) {
	resp, err := h.svc.Sales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary      Dashboard counters
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportProducts godoc
// @Summary      Export the product catalog as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} file
// @Router       /v1/reports/export/products [get]
func (h *ReportsHandler) ExportProducts(c *gin.Context) {
	buf, err := h.svc.ExportProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	serveXLSX(c, "products", buf)
}

// ExportOrders godoc
// @Summary      Export orders as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} file
// @Router       /v1/reports/export/orders [get]
func (h *ReportsHandler) ExportOrders(c *gin.Context) {
	buf, err := h.svc.ExportOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	serveXLSX(c, "orders", buf)
}

// ExportTransactions godoc
// @Summary      Export the finance ledger as XLSX
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} file
// @Router       /v1/reports/export/transactions [get]
func (h *ReportsHandler) ExportTransactions(c *gin.Context) {
	buf, err := h.svc.ExportTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	serveXLSX(c, "transactions", buf)
}

func serveXLSX(c *gin.Context, name string, buf *bytes.Buffer) {
	filename := name + "_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}
