package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Habit Alert API",
        "description": "Daily habit schedules, assignments and local reminders",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Day schedules and activities"},
        {"name": "Templates", "description": "Onday/offday template overrides"},
        {"name": "Assignments", "description": "Deadline-bound tasks"},
        {"name": "Notifications", "description": "Reminders and delivery channels"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/schedules/{date}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Resolve a day schedule, materializing it on first access",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string", "description": "Calendar date (YYYY-MM-DD)"}
                ],
                "responses": {
                    "200": {"description": "Schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/{date}/activities": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Add a custom activity",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddActivityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Updated schedule"}
                }
            }
        },
        "/api/v1/schedules/{date}/activities/{id}/toggle": {
            "patch": {
                "tags": ["Schedules"],
                "summary": "Toggle an activity's completion",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated schedule"}
                }
            }
        },
        "/api/v1/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [
                    {"name": "view", "in": "query", "type": "string", "description": "pending | completed | overdue | urgent"}
                ],
                "responses": {
                    "200": {"description": "Assignments"}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/notifications/permission": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Record the notification permission decision",
                "responses": {
                    "200": {"description": "State"}
                }
            }
        }
    },
    "definitions": {
        "AddActivityRequest": {
            "type": "object",
            "required": ["time", "name"],
            "properties": {
                "time": {"type": "string", "example": "17:00"},
                "name": {"type": "string", "example": "Practice Time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
