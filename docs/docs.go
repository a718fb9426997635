// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

// Package docs holds the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/server/docs.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/mediashelf/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/games": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Games"],
                "summary": "List games",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 25, "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GamePage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["Games"],
                "summary": "Create a game",
                "parameters": [
                    {"type": "string", "description": "Title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Status", "name": "status", "in": "formData"},
                    {"type": "number", "description": "Rating 1-5", "name": "rating", "in": "formData"},
                    {"type": "string", "description": "Notes", "name": "notes", "in": "formData"},
                    {"type": "string", "description": "Trailer URL", "name": "trailerUrl", "in": "formData"},
                    {"type": "string", "description": "Launch date", "name": "launchDate", "in": "formData"},
                    {"type": "file", "description": "Cover image", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Game"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/games/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Games"],
                "summary": "Get a game",
                "parameters": [{"type": "integer", "description": "Game ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Game"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["Games"],
                "summary": "Update a game",
                "parameters": [
                    {"type": "integer", "description": "Game ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Replacement cover image", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Game"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Games"],
                "summary": "Delete a game",
                "parameters": [{"type": "integer", "description": "Game ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/songs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Songs"],
                "summary": "List songs",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 24, "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SongPage"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Songs"],
                "summary": "Create a song",
                "parameters": [{"description": "Song", "name": "song", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Song"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Song"}}
                }
            }
        },
        "/songs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Songs"],
                "summary": "Get a song",
                "parameters": [{"type": "integer", "description": "Song ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Song"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Songs"],
                "summary": "Update a song",
                "parameters": [
                    {"type": "integer", "description": "Song ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "song", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Song"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Song"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Songs"],
                "summary": "Delete a song",
                "parameters": [{"type": "integer", "description": "Song ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/clips": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clips"],
                "summary": "List clips",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ClipList"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Clips"],
                "summary": "Create a clip",
                "parameters": [
                    {"type": "string", "description": "Title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData"},
                    {"type": "file", "description": "Thumbnail image", "name": "thumbnail", "in": "formData"},
                    {"type": "file", "description": "Video file", "name": "video", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Clip"}},
                    "413": {"description": "Payload Too Large", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/clips/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clips"],
                "summary": "Get a clip",
                "parameters": [{"type": "integer", "description": "Clip ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Clip"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Clips"],
                "summary": "Update a clip",
                "parameters": [{"type": "integer", "description": "Clip ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Clip"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Clips"],
                "summary": "Delete a clip",
                "parameters": [{"type": "integer", "description": "Clip ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Collection counts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Stats"}}}
            }
        },
        "/debug": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Store introspection",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DebugInfo"}}}
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["Realtime"],
                "summary": "Catalog change feed",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "models.Game": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "status": {"type": "string", "enum": ["Playing", "Completed", "Pending", "Abandoned"]},
                "rating": {"type": "number"},
                "notes": {"type": "string"},
                "trailerUrl": {"type": "string"},
                "launchDate": {"type": "string"},
                "imageUrl": {"type": "string"}
            }
        },
        "models.Song": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "artist": {"type": "string"},
                "youtubeUrl": {"type": "string"},
                "coverImageUrl": {"type": "string"}
            }
        },
        "models.Clip": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "thumbnailUrl": {"type": "string"},
                "videoUrl": {"type": "string"}
            }
        },
        "models.GamePage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Game"}},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "models.SongPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Song"}},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "models.ClipList": {
            "type": "object",
            "properties": {
                "clips": {"type": "array", "items": {"$ref": "#/definitions/models.Clip"}}
            }
        },
        "models.Stats": {
            "type": "object",
            "properties": {
                "games": {"type": "integer"},
                "songs": {"type": "integer"},
                "clips": {"type": "integer"}
            }
        },
        "models.DebugInfo": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/models.Stats"},
                "sampleGames": {"type": "array", "items": {"$ref": "#/definitions/models.Game"}},
                "sampleSongs": {"type": "array", "items": {"$ref": "#/definitions/models.Song"}}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "backend": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Mediashelf API",
	Description:      "Catalog of games, songs and clips.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
