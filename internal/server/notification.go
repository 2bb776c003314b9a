package server

import (
	"net/http"

	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// @Summary      List Notifications
// @Description  List the caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "Filter by type"
// @Param        unread query bool false "Unread only"
// @Param        page_size query int false "Page size"
// @Param        page_token query string false "Opaque page token"
// @Success      200  {object}  notificationdomain.ListResponse
// @Router       /notifications [get]
func (s *Server) ListNotifications(c *gin.Context) {
	req := notificationdomain.ListRequest{
		UserID: sessionUserID(c),
		Type:   c.Query("type"),
		Unread: c.Query("unread") == "true",
	}
	if err := c.ShouldBindQuery(&req.Pagination); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.notifSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Unread Notification Count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /notifications/unread-count [get]
func (s *Server) UnreadNotificationCount(c *gin.Context) {
	count, err := s.notifSvc.UnreadCount(c.Request.Context(), sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unread": count}})
}

// @Summary      Mark Notification Read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]bool
// @Router       /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, notificationdomain.ErrNotFound)
		return
	}

	if err := s.notifSvc.MarkRead(c.Request.Context(), sessionUserID(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"read": true}})
}

// @Summary      Mark All Notifications Read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	updated, err := s.notifSvc.MarkAllRead(c.Request.Context(), sessionUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": updated}})
}

// @Summary      Delete Notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]bool
// @Router       /notifications/{id} [delete]
func (s *Server) DeleteNotification(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, notificationdomain.ErrNotFound)
		return
	}

	if err := s.notifSvc.Delete(c.Request.Context(), sessionUserID(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
