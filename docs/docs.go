// Package docs holds the OpenAPI document served by gin-swagger at
// /swagger/*any. Regenerate with `swag init -g cmd/server/main.go` after
// changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/kudos": {
            "post": {
                "description": "Records a recognition for the receiver and returns the messages to deliver. Supports Idempotency-Key for safe retries.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Kudos"],
                "summary": "Submit a recognition",
                "operationId": "submitKudos",
                "parameters": [
                    {"type": "string", "description": "Caller id (scopes Idempotency-Key)", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Idempotency key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Recognition", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SubmitKudosRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/services.Outputs"}, "headers": {"Idempotency-Replayed": {"type": "string", "description": "true when served from a stored response"}}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Concurrent update of the receiver", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Unknown category, or Idempotency-Key reused with a different payload", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Persistence failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "description": "Returns the fixed set of categories a kudo can be given for, in form order.",
                "produces": ["application/json"],
                "tags": ["Kudos"],
                "summary": "List recognition categories",
                "operationId": "listCategories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListCategoriesResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "description": "Returns a page of user aggregates ordered by giving points. Supports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Leaderboard",
                "operationId": "listUsers",
                "parameters": [
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number (>=1)", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page (1..100)", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListUsersResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}},
                    "304": {"description": "Not Modified"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get a user aggregate",
                "operationId": "getUser",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserAggregate"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/kudos": {
            "get": {
                "description": "Returns a page of the recognitions the user received, oldest first.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List a user's received recognitions",
                "operationId": "listUserKudos",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number (>=1)", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page (1..100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListUserKudosResponse"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.RecognitionEntry": {
            "type": "object",
            "properties": {
                "from": {"type": "string"},
                "value": {"type": "string"},
                "message": {"type": "string"},
                "received_at": {"type": "string"}
            }
        },
        "domain.UserAggregate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "giving_points": {"type": "integer"},
                "received_nkudos": {"type": "array", "items": {"$ref": "#/definitions/domain.RecognitionEntry"}},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handlers.CategoryResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Leadership"},
                "emoji": {"type": "string", "example": "☄️"},
                "label": {"type": "string", "example": "Leadership ☄️"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "user not found"}
            }
        },
        "handlers.ListCategoriesResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"$ref": "#/definitions/handlers.CategoryResponse"}}
            }
        },
        "handlers.ListUserKudosResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "kudos": {"type": "array", "items": {"$ref": "#/definitions/domain.RecognitionEntry"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.ListUsersResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/domain.UserAggregate"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "handlers.SubmitKudosRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Great work on the release"},
                "user": {"type": "string", "example": "U1"},
                "receiver": {"type": "string", "example": "U2"},
                "kudo_value": {"type": "string", "example": "Leadership ☄️"},
                "private_scope": {"type": "boolean", "example": true}
            }
        },
        "services.Outputs": {
            "type": "object",
            "properties": {
                "transaction_id": {"type": "string"},
                "public_message": {"type": "string"},
                "private_message": {"type": "string"},
                "updatedMsg": {"type": "string"},
                "nKudoMessage": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "nKudos API",
	Description:      "Peer recognition: submit kudos, read aggregates and the leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
