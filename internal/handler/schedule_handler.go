package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/internal/service"
	"github.com/noah-isme/habit-alert-api/pkg/response"
)

// ScheduleHandler manages day-schedule and template endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Get godoc
// @Summary Resolve a day schedule (materializes on first access)
// @Tags Schedules
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{date} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Resolve(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// AddActivity godoc
// @Summary Add a custom activity to a day
// @Tags Schedules
// @Accept json
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Param payload body service.AddActivityRequest true "Activity"
// @Success 201 {object} response.Envelope
// @Router /schedules/{date}/activities [post]
func (h *ScheduleHandler) AddActivity(c *gin.Context) {
	var req service.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.service.AddActivity(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// ToggleActivity godoc
// @Summary Toggle an activity's completion
// @Tags Schedules
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{date}/activities/{id}/toggle [patch]
func (h *ScheduleHandler) ToggleActivity(c *gin.Context) {
	schedule, err := h.service.ToggleActivity(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// Stats godoc
// @Summary Completion stats for a day
// @Tags Schedules
// @Produce json
// @Param date path string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{date}/stats [get]
func (h *ScheduleHandler) Stats(c *gin.Context) {
	stats, err := h.service.CompletionStats(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// ClearAll godoc
// @Summary Drop all materialized schedules
// @Tags Schedules
// @Success 204
// @Router /schedules [delete]
func (h *ScheduleHandler) ClearAll(c *gin.Context) {
	if err := h.service.ClearSchedules(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearData godoc
// @Summary Drop all schedules and template overrides
// @Tags Schedules
// @Success 204
// @Router /data [delete]
func (h *ScheduleHandler) ClearData(c *gin.Context) {
	if err := h.service.ClearAllData(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Templates godoc
// @Summary Current templates per day type (custom when set, else default)
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *ScheduleHandler) Templates(c *gin.Context) {
	templates, err := h.service.Templates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates)
}

// SaveTemplate godoc
// @Summary Replace the custom template for a day type
// @Tags Templates
// @Accept json
// @Param type path string true "onday or offday"
// @Param payload body service.SaveTemplateRequest true "Template entries"
// @Success 204
// @Router /templates/{type} [put]
func (h *ScheduleHandler) SaveTemplate(c *gin.Context) {
	var req service.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.SaveTemplate(c.Request.Context(), models.DayType(c.Param("type")), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ResetTemplate godoc
// @Summary Reset a day type's template to the built-in default
// @Tags Templates
// @Param type path string true "onday or offday"
// @Success 204
// @Router /templates/{type} [delete]
func (h *ScheduleHandler) ResetTemplate(c *gin.Context) {
	if err := h.service.ResetTemplate(c.Request.Context(), models.DayType(c.Param("type"))); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
