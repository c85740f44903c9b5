package handler

import (
	"net/http"

	"github.com/qureshi08/NPF-1/internal/apierror"
	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct{ svc service.FinanceService }

func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

// Create godoc
// @Summary      Record a manual ledger entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTransactionRequest true "Transaction"
// @Success      201  {object} dto.TransactionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/finance [post]
func (h *FinanceHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
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
// @Summary      List ledger entries
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        type      query string false "Income | Expense"
// @Param        category  query string false "Category"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.TransactionListResponse
// @Router       /v1/finance [get]
func (h *FinanceHandler) List(c *gin.Context) {
	var filter dto.TransactionFilter
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
// @Summary      Get a ledger entry
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Transaction UUID"
// @Success      200 {object} dto.TransactionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/finance/{id} [get]
func (h *FinanceHandler) Get(c *gin.Context) {
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

// Update godoc
// @Summary      Update a ledger entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Transaction UUID"
// @Param        body body dto.CreateTransactionRequest true "New values"
// @Success      200  {object} dto.TransactionResponse
// @Router       /v1/finance/{id} [put]
func (h *FinanceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a ledger entry
// @Description  When the entry mirrored an order, the order's payment status is re-derived from the remaining Income entries.
// @Tags         finance
// @Security     BearerAuth
// @Param        id path string true "Transaction UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/finance/{id} [delete]
func (h *FinanceHandler) Delete(c *gin.Context) {
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

// Summary godoc
// @Summary      Income/expense totals over an optional date range
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.FinanceSummary
// @Router       /v1/finance/summary [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
