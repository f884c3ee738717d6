package controller

import (
	"strconv"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// @Summary The caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param read query bool false "read filter"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)
	var read *bool
	if raw := ctx.Query("read"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid read filter")
			return
		}
		read = &v
	}
	notifications, total, err := c.NotificationService.ListForUser(user.UserID, read, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: notifications, Total: total, Page: page, Limit: limit})
}

// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "notification id"
// @Success 200 {object} util.Response
// @Router /api/notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid notification id")
		return
	}
	if err := c.NotificationService.MarkRead(id, user.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.NotificationService.MarkAllRead(user.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

// @Summary Send a notification to a class, a user, or everyone
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "title, message, category, class or userId"
// @Success 200 {object} util.Response
// @Router /api/notifications/send [post]
func (c *NotificationController) Send(ctx *gin.Context) {
	var body struct {
		Title    string                     `json:"title" binding:"required"`
		Message  string                     `json:"message" binding:"required"`
		Category model.NotificationCategory `json:"category"`
		Class    string                     `json:"class"`
		UserID   *uint                      `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if body.Category == "" {
		body.Category = model.NotifyInfo
	}

	var err error
	switch {
	case body.UserID != nil:
		err = c.NotificationService.Notify(*body.UserID, body.Title, body.Message, body.Category)
	case body.Class != "":
		err = c.NotificationService.NotifyClass(body.Class, body.Title, body.Message, body.Category)
	default:
		err = c.NotificationService.NotifyGlobal(body.Title, body.Message, body.Category)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sent": true})
}

// @Summary Delete notifications older than a cutoff
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param days query int false "age in days" default(30)
// @Success 200 {object} util.Response
// @Router /api/notifications/old [delete]
func (c *NotificationController) DeleteOld(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	if days < 1 {
		util.BadRequest(ctx, "invalid age")
		return
	}
	deleted, err := c.NotificationService.CleanupOld(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}

// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	count, err := c.NotificationService.UnreadCount(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}
