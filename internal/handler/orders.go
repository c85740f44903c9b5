package handler

import (
	"fmt"
	"net/http"

	"github.com/qureshi08/NPF-1/internal/apierror"
	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	svc      service.OrderService
	payments service.PaymentService
	invoices service.InvoiceService
}

func NewOrdersHandler(svc service.OrderService, payments service.PaymentService, invoices service.InvoiceService) *OrdersHandler {
	return &OrdersHandler{svc: svc, payments: payments, invoices: invoices}
}

// Create godoc
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order header"
// @Success      201  {object} dto.OrderResponse
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status         query string false "Order status"
// @Param        payment_status query string false "Unpaid | Partial | Paid"
// @Param        customer_id    query string false "Customer UUID"
// @Param        date_from      query string false "YYYY-MM-DD"
// @Param        date_to        query string false "YYYY-MM-DD"
// @Param        page           query int    false "Page (default 1)"
// @Param        limit          query int    false "Rows per page (default 20)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get an order with items and payments
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Order UUID"
// @Param        body body dto.UpdateOrderStatusRequest true "New status"
// @Success      200  {object} dto.OrderResponse
// @Router       /v1/orders/{id}/status [put]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), actorID(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary      Add an item to an order
// @Description  Reserves stock, snapshots the unit price, recomputes the total, and awards loyalty points — all in one transaction.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Order UUID"
// @Param        body body dto.AddOrderItemRequest true "Product and quantity"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError "Insufficient stock"
// @Router       /v1/orders/{id}/items [post]
func (h *OrdersHandler) AddItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddOrderItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Remove an item from an order
// @Description  Releases the reserved stock and shrinks the total. Loyalty points already earned are kept.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Order UUID"
// @Param        item_id path string true "Item UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id}/items/{item_id} [delete]
func (h *OrdersHandler) RemoveItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), actorID(c), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Restores stock for every line item before removing the order.
// @Tags         orders
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [delete]
func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordPayment godoc
// @Summary      Record a payment against an order
// @Description  Re-derives the payment status from the cumulative payment sum; mirrors the total into the ledger once fully paid.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Order UUID"
// @Param        body body dto.RecordPaymentRequest true "Payment"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/orders/{id}/payments [post]
func (h *OrdersHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.payments.RecordPayment(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkPaid godoc
// @Summary      Settle an order's outstanding balance
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Router       /v1/orders/{id}/mark-paid [post]
func (h *OrdersHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.payments.MarkPaid(c.Request.Context(), actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Invoice godoc
// @Summary      Download the order invoice as PDF
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id}/invoice [get]
func (h *OrdersHandler) Invoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	path, err := h.invoices.Generate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("invoice_%s.pdf", id.String()[:8])
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.File(path)
}
