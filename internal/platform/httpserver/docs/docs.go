// Package docs registers the OpenAPI document served under /swagger/.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Service banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.RootResponse"}}
                }
            }
        },
        "/api/leads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leads"],
                "summary": "List leads",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive industry substring", "name": "industry", "in": "query"},
                    {"type": "integer", "description": "Minimum company size", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.LeadResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/leads/{lead_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leads"],
                "summary": "Get lead",
                "parameters": [
                    {"type": "integer", "description": "Lead ID", "name": "lead_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.LeadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/events": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Record interaction event",
                "parameters": [
                    {"description": "Event", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.EventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.EventResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/analytics/usage": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Usage report",
                "parameters": [
                    {"type": "integer", "description": "Window in days", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/analytics/leads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Lead quality report",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/analytics/industries/top": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Top filtered industries",
                "parameters": [
                    {"type": "integer", "description": "Window in days", "name": "days", "in": "query"},
                    {"type": "integer", "description": "Number of industries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/analytics/views": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "View preference",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/analytics/queries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Custom analytical queries",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "http.RootResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "http.LeadResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "company": {"type": "string"},
                "industry": {"type": "string"},
                "size": {"type": "integer"},
                "source": {"type": "string"},
                "created_at": {"type": "string"},
                "quality": {"type": "string"},
                "summary": {"type": "string"}
            }
        },
        "http.EventRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "data": {},
                "timestamp": {"type": "string"}
            }
        },
        "http.EventResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "action": {"type": "string"},
                "data": {},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lead Qualification API",
	Description:      "Lead listing, interaction capture and usage analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
