// Package docs registers the Swagger document for the HTTP routes that sit
// beside the GraphQL endpoint.
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
        "/graphql": {
            "post": {
                "description": "Runs a query or mutation. Every field resolves to an envelope with success, message and data; failures are reported in errors[].extensions.code.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["graphql"],
                "summary": "Execute a GraphQL operation",
                "parameters": [
                    {
                        "description": "GraphQL request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/graphql.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/social/github": {
            "get": {
                "description": "Redirects the browser to GitHub's authorize page with a signed state and PKCE challenge",
                "tags": ["auth"],
                "summary": "Start GitHub sign-in",
                "parameters": [
                    {"type": "string", "description": "Frontend path or URL to return to after sign-in", "name": "callbackURL", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/auth/callback/{provider}": {
            "get": {
                "description": "Validates the state, exchanges the code, links the account, sets the session cookie and redirects to the frontend",
                "tags": ["auth"],
                "summary": "Complete OAuth sign-in",
                "parameters": [
                    {"enum": ["github"], "type": "string", "description": "OAuth provider", "name": "provider", "in": "path", "required": true},
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true},
                    {"type": "string", "description": "Signed state", "name": "state", "in": "query", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/api/v1/uploads": {
            "post": {
                "security": [{"SessionCookie": []}],
                "description": "Stores a JPEG, PNG, GIF or WebP image (max 5 MB) and returns its public URL, for use as a post's mainImage or a user avatar",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload an image",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "graphql.Request": {
            "type": "object",
            "properties": {
                "operationName": {"type": "string"},
                "query": {"type": "string"},
                "variables": {"type": "object", "additionalProperties": true}
            }
        },
        "http.UploadResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "url": {"type": "string"}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "statusCode": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "description": "Session token issued by signInEmail or signUpEmail.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Blog API",
	Description:      "GraphQL blogging backend: posts, authors, categories, sessions and GitHub sign-in",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
