// Package docs registers the generated swagger description served under
// /swagger. Regenerate with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/polls": {
            "get": {
                "tags": ["polls"],
                "summary": "List polls",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["polls"],
                "summary": "Create a poll",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "invalid poll definition"}
                }
            }
        },
        "/polls/{id}": {
            "get": {
                "tags": ["polls"],
                "summary": "Get a poll with its options",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "poll not found"}
                }
            }
        },
        "/polls/{id}/vote": {
            "post": {
                "tags": ["votes"],
                "summary": "Cast a vote",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "invalid selection"},
                    "404": {"description": "poll not found"},
                    "409": {"description": "already voted"}
                }
            }
        },
        "/polls/{id}/vote-status": {
            "get": {
                "tags": ["votes"],
                "summary": "Voter's status on a poll",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "poll not found"}
                }
            }
        },
        "/polls/{id}/results": {
            "get": {
                "tags": ["polls"],
                "summary": "Poll results",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "poll not found"}
                }
            }
        },
        "/polls/{id}/comments": {
            "get": {
                "tags": ["comments"],
                "summary": "List a poll's comments",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["comments"],
                "summary": "Comment on a poll",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "invalid comment"},
                    "404": {"description": "poll not found"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Poll.it API",
	Description:      "Real-time polling: create polls, vote, watch results live",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
