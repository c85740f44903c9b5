package handler

import (
	"net/http"
	"strconv"

	"github.com/qureshi08/NPF-1/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct{ svc service.AuditService }

func NewNotificationsHandler(svc service.AuditService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

// List godoc
// @Summary      List own notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread query bool false "Only unread"
// @Success      200 {array} dto.NotificationResponse
// @Router       /v1/notifications [get]
func (h *NotificationsHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	resp, err := h.svc.Notifications(c.Request.Context(), actorID(c), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id path string true "Notification UUID"
// @Success      204
// @Router       /v1/notifications/{id}/read [post]
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Mark all own notifications as read
// @Tags         notifications
// @Security     BearerAuth
// @Success      204
// @Router       /v1/notifications/read-all [post]
func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AuditLog godoc
// @Summary      Browse the audit trail
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        username query string false "Exact acting username"
// @Param        action   query string false "Exact action, e.g. order_deleted"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 50)"
// @Success      200 {object} map[string]interface{}
// @Router       /v1/audit [get]
func (h *NotificationsHandler) AuditLog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, total, err := h.svc.ListLogs(c.Request.Context(), c.Query("username"), c.Query("action"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
