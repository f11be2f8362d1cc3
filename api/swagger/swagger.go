package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Tracker API",
        "description": "Personal study tracker: goals, study sessions, progress and analytics.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Goals", "description": "Study-minute targets per day, week or month"},
        {"name": "Sessions", "description": "Logged study sessions, analytics and exports"},
        {"name": "Health", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Database reachable"},
                    "503": {"description": "Database unreachable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics": {
            "get": {"tags": ["Health"], "summary": "Prometheus metrics", "produces": ["text/plain"], "responses": {"200": {"description": "Exposition format"}}}
        },
        "/api/goals": {
            "get": {
                "tags": ["Goals"],
                "summary": "List goals, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/GoalList"}}}
            },
            "post": {
                "tags": ["Goals"],
                "summary": "Create goal",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GoalRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/GoalResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/goals/active": {
            "get": {
                "tags": ["Goals"],
                "summary": "List active goals, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/GoalList"}}}
            }
        },
        "/api/goals/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "get": {
                "tags": ["Goals"],
                "summary": "Get goal",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GoalResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Goals"],
                "summary": "Update goal",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GoalRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GoalResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Goals"],
                "summary": "Delete goal (idempotent)",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/goals/{id}/progress": {
            "get": {
                "tags": ["Goals"],
                "summary": "Goal progress in the current window",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GoalProgressResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List sessions, latest start first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionList"}}}
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Log study session",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SessionResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/sessions/range": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List sessions started inside a range",
                "description": "Bounds accept RFC 3339 or expressions such as \"yesterday\", \"this week\" or \"2 weeks ago\".",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "description": "Defaults to a week before to"},
                    {"in": "query", "name": "to", "type": "string", "description": "Defaults to now"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionList"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/sessions/export": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Download sessions of an analytics window",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"},
                    {"in": "query", "name": "period", "type": "string", "enum": ["daily", "weekly", "monthly"], "default": "weekly"}
                ],
                "responses": {
                    "200": {"description": "File attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/sessions/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "get": {
                "tags": ["Sessions"],
                "summary": "Get session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "Delete session (idempotent)",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/sessions/analytics/{period}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Minutes per subject over a period",
                "description": "Unknown periods are treated as weekly.",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "period", "type": "string", "required": true, "description": "daily, weekly or monthly"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AnalyticsResponse"}}}
            }
        }
    },
    "definitions": {
        "Goal": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "target_minutes": {"type": "integer", "minimum": 1},
                "type": {"type": "string", "enum": ["DAILY", "WEEKLY", "MONTHLY"]},
                "created_at": {"type": "string", "format": "date-time"},
                "active": {"type": "boolean"}
            }
        },
        "GoalRequest": {
            "type": "object",
            "required": ["name", "target_minutes", "type"],
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "target_minutes": {"type": "integer", "minimum": 1},
                "type": {"type": "string", "enum": ["DAILY", "WEEKLY", "MONTHLY"]},
                "active": {"type": "boolean"}
            }
        },
        "GoalProgress": {
            "type": "object",
            "properties": {
                "goal": {"$ref": "#/definitions/Goal"},
                "current_minutes": {"type": "integer"},
                "target_minutes": {"type": "integer"},
                "percentage": {"type": "number", "minimum": 0, "maximum": 100},
                "window_start": {"type": "string", "format": "date-time"}
            }
        },
        "StudySession": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "subject": {"type": "string"},
                "duration_minutes": {"type": "integer", "minimum": 1},
                "notes": {"type": "string", "maxLength": 1000},
                "start_time": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "SessionRequest": {
            "type": "object",
            "required": ["subject", "duration_minutes"],
            "properties": {
                "subject": {"type": "string", "maxLength": 255},
                "duration_minutes": {"type": "integer", "minimum": 1},
                "notes": {"type": "string", "maxLength": 1000},
                "start_time": {"type": "string", "format": "date-time"}
            }
        },
        "SessionAnalytics": {
            "type": "object",
            "properties": {
                "period": {"type": "string", "enum": ["daily", "weekly", "monthly"]},
                "requested_period": {"type": "string"},
                "window_start": {"type": "string", "format": "date-time"},
                "total_minutes": {"type": "integer"},
                "subject_breakdown": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {"subject": {"type": "string"}, "minutes": {"type": "integer"}}
                    }
                }
            }
        },
        "GoalList": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/Goal"}}}},
        "GoalResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/Goal"}}},
        "GoalProgressResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/GoalProgress"}, "meta": {"type": "object"}}},
        "SessionList": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/StudySession"}}, "meta": {"type": "object"}}},
        "SessionResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/StudySession"}}},
        "AnalyticsResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/SessionAnalytics"}, "meta": {"type": "object"}}},
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
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
