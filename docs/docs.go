// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login with a consultant id",
                "parameters": [
                    {"description": "Consultant id", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.LoginResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "description": "Re-checks that the consultant still exists and is active.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Restore a session and issue a new access token",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.LoginResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the record cached in the session.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current consultant",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Consultant"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/consultants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Admins see everyone, leaders their direct recruits, consultants themselves.",
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "List visible consultants",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive match on name, city or email", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Consultant"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "Create consultant",
                "parameters": [
                    {"description": "Consultant payload", "name": "consultant", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ConsultantFields"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Consultant"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/consultants/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "Export the roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Consultant"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/consultants/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Keeps ids and creation dates. Existing ids are skipped; unknown recruiters are dropped.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["seed"],
                "summary": "Import a roster export",
                "parameters": [
                    {"description": "Exported roster", "name": "roster", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Consultant"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ImportResult"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/consultants/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "Get consultant by id",
                "parameters": [
                    {"type": "string", "description": "Consultant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Consultant"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Partial update. Send the version last read in If-Match to reject concurrent edits.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "Update consultant",
                "parameters": [
                    {"type": "string", "description": "Consultant ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Expected version", "name": "If-Match", "in": "header"},
                    {"description": "Fields to change", "name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ConsultantPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Consultant"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Irreversible. Direct recruits move to the purged record's recruiter.",
                "tags": ["consultants"],
                "summary": "Purge consultant",
                "parameters": [
                    {"type": "string", "description": "Consultant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/consultants/{id}/deactivate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Soft delete. The record stays in the network but can no longer log in.",
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "Deactivate consultant",
                "parameters": [
                    {"type": "string", "description": "Consultant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Consultant"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/team": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["consultants"],
                "summary": "List my direct recruits",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive match on name, city or email", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Consultant"}}}
                }
            }
        },
        "/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Totals, active count, distinct teams and records created this calendar month.",
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Roster statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Stats"}}
                }
            }
        }
    },
    "definitions": {
        "errors.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/errors.FieldError"}}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string"}}
        },
        "handler.RefreshRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {"refreshToken": {"type": "string"}}
        },
        "model.Consultant": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "leader", "consultant"]},
                "whatsapp": {"type": "string"},
                "email": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive"]},
                "photoUrl": {"type": "string"},
                "teamName": {"type": "string"},
                "parentId": {"type": "string"},
                "version": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.ConsultantFields": {
            "type": "object",
            "required": ["city", "email", "name", "state", "whatsapp"],
            "properties": {
                "name": {"type": "string"},
                "whatsapp": {"type": "string"},
                "email": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "leader", "consultant"]},
                "photoUrl": {"type": "string"},
                "teamName": {"type": "string"},
                "parentId": {"type": "string"}
            }
        },
        "model.ConsultantPatch": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "whatsapp": {"type": "string"},
                "email": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "leader", "consultant"]},
                "status": {"type": "string", "enum": ["active", "inactive"]},
                "photoUrl": {"type": "string"},
                "teamName": {"type": "string"},
                "parentId": {"type": "string"}
            }
        },
        "model.Stats": {
            "type": "object",
            "properties": {
                "totalConsultants": {"type": "integer"},
                "activeConsultants": {"type": "integer"},
                "totalTeams": {"type": "integer"},
                "newThisPeriod": {"type": "integer"}
            }
        },
        "service.ImportResult": {
            "type": "object",
            "properties": {
                "imported": {"type": "integer"},
                "skipped": {"type": "integer"},
                "detached": {"type": "array", "items": {"type": "string"}},
                "invalid": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.LoginResult": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "consultant": {"$ref": "#/definitions/model.Consultant"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Brotos Consultant Network API",
	Description:      "Consultant hierarchy, sessions and roster statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
