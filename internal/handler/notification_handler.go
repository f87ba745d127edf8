package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/habit-alert-api/internal/notify"
	"github.com/noah-isme/habit-alert-api/internal/service"
	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
	"github.com/noah-isme/habit-alert-api/pkg/response"
)

// NotificationHandler exposes permission state, the banner feed and
// reminder controls.
type NotificationHandler struct {
	permission *notify.Permission
	dispatcher *notify.Dispatcher
	banner     *notify.Banner
	reminders  *service.ReminderService
}

// NewNotificationHandler constructs handler.
func NewNotificationHandler(permission *notify.Permission, dispatcher *notify.Dispatcher, banner *notify.Banner, reminders *service.ReminderService) *NotificationHandler {
	return &NotificationHandler{permission: permission, dispatcher: dispatcher, banner: banner, reminders: reminders}
}

type permissionRequest struct {
	Decision notify.PermissionDecision `json:"decision" binding:"required"`
}

// Permission godoc
// @Summary Record the user's notification permission decision
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body permissionRequest true "granted or denied"
// @Success 200 {object} response.Envelope
// @Router /notifications/permission [post]
func (h *NotificationHandler) Permission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Decision != notify.PermissionGranted && req.Decision != notify.PermissionDenied {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "decision must be granted or denied"))
		return
	}
	h.permission.Set(req.Decision)
	response.JSON(c, http.StatusOK, gin.H{"state": h.permission.State()})
}

// PermissionState godoc
// @Summary Current notification permission state
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/permission [get]
func (h *NotificationHandler) PermissionState(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"state": h.permission.State()})
}

// Feed godoc
// @Summary Recent in-app notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/feed [get]
func (h *NotificationHandler) Feed(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.banner.Recent())
}

// Test godoc
// @Summary Fire a test notification on every channel
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/test [post]
func (h *NotificationHandler) Test(c *gin.Context) {
	h.dispatcher.Dispatch(c.Request.Context(), notify.Message{
		Title: "Babes Habit Alert",
		Body:  "Babes. It's time of Test Activity",
		Tag:   "test",
	})
	response.JSON(c, http.StatusOK, gin.H{"delivered": true})
}

// Refresh godoc
// @Summary Recompute pending reminders from current data
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders/refresh [post]
func (h *NotificationHandler) Refresh(c *gin.Context) {
	if err := h.reminders.RefreshToday(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"activity":   h.reminders.PendingCount(service.KindActivity),
		"assignment": h.reminders.PendingCount(service.KindAssignment),
	})
}

// Pending godoc
// @Summary Snapshot of registered reminder triggers
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reminders [get]
func (h *NotificationHandler) Pending(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reminders.Pending())
}
