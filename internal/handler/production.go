package handler

import (
	"net/http"

	"github.com/qureshi08/NPF-1/internal/apierror"
	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductionHandler struct{ svc service.ProductionService }

func NewProductionHandler(svc service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// Create godoc
// @Summary      Queue a production job
// @Tags         production
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductionJobRequest true "Job"
// @Success      201  {object} dto.ProductionJobResponse
// @Router       /v1/production [post]
func (h *ProductionHandler) Create(c *gin.Context) {
	var req dto.CreateProductionJobRequest
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
// @Summary      List production jobs
// @Tags         production
// @Produce      json
// @Security     BearerAuth
// @Param        status  query string false "Workshop stage"
// @Param        overdue query bool   false "Only jobs past their due date"
// @Param        page    query int    false "Page (default 1)"
// @Param        limit   query int    false "Rows per page (default 20)"
// @Success      200 {object} dto.ProductionJobListResponse
// @Router       /v1/production [get]
func (h *ProductionHandler) List(c *gin.Context) {
	var filter dto.ProductionJobFilter
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
// @Summary      Get a production job
// @Tags         production
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Job UUID"
// @Success      200 {object} dto.ProductionJobResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/production/{id} [get]
func (h *ProductionHandler) Get(c *gin.Context) {
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
// @Summary      Update a production job
// @Description  Stage changes must follow the workshop order; any stage may jump straight to Finished.
// @Tags         production
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "Job UUID"
// @Param        body body dto.UpdateProductionJobRequest true "Fields to update"
// @Success      200  {object} dto.ProductionJobResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/production/{id} [put]
func (h *ProductionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductionJobRequest
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
// @Summary      Delete a production job
// @Tags         production
// @Security     BearerAuth
// @Param        id path string true "Job UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/production/{id} [delete]
func (h *ProductionHandler) Delete(c *gin.Context) {
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
