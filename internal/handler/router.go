package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes wires every handler under the API prefix group.
func RegisterRoutes(api *gin.RouterGroup, schedules *ScheduleHandler, assignments *AssignmentHandler, notifications *NotificationHandler) {
	api.GET("/schedules/:date", schedules.Get)
	api.GET("/schedules/:date/stats", schedules.Stats)
	api.POST("/schedules/:date/activities", schedules.AddActivity)
	api.PATCH("/schedules/:date/activities/:id/toggle", schedules.ToggleActivity)
	api.DELETE("/schedules", schedules.ClearAll)
	api.DELETE("/data", schedules.ClearData)

	api.GET("/templates", schedules.Templates)
	api.PUT("/templates/:type", schedules.SaveTemplate)
	api.DELETE("/templates/:type", schedules.ResetTemplate)

	api.GET("/assignments", assignments.List)
	api.POST("/assignments", assignments.Create)
	api.GET("/assignments/stats", assignments.Stats)
	api.GET("/assignments/export", assignments.Export)
	api.PUT("/assignments/:id", assignments.Update)
	api.DELETE("/assignments/:id", assignments.Delete)
	api.POST("/assignments/:id/complete", assignments.Complete)

	api.GET("/notifications/permission", notifications.PermissionState)
	api.POST("/notifications/permission", notifications.Permission)
	api.GET("/notifications/feed", notifications.Feed)
	api.POST("/notifications/test", notifications.Test)
	api.GET("/reminders", notifications.Pending)
	api.POST("/reminders/refresh", notifications.Refresh)
}
