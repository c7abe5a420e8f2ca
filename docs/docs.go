// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/members": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["members"], "summary": "List members", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/members/whoami": {
            "get": {"tags": ["members"], "summary": "Describe the caller", "responses": {"200": {"description": "OK"}}}
        },
        "/members/is-admin": {
            "get": {"tags": ["members"], "summary": "Whether the caller is an admin", "responses": {"200": {"description": "OK"}}}
        },
        "/meetings": {
            "get": {"tags": ["meetings"], "summary": "List meetings", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Create a meeting", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/meetings/{meetingID}": {
            "get": {"tags": ["meetings"], "summary": "Get a meeting", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Replace a meeting", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Delete a meeting", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/meetings/{meetingID}/status": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["meetings"], "summary": "Publish or unpublish a meeting", "responses": {"200": {"description": "OK"}}}
        },
        "/meetings/{meetingID}/checkins": {
            "get": {"tags": ["checkins"], "summary": "List checkins", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["checkins"], "summary": "Check in", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/meetings/{meetingID}/checkins/segments/{segmentID}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["checkins"], "summary": "Release a segment", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/meetings/{meetingID}/feedbacks": {
            "get": {"tags": ["feedbacks"], "summary": "List feedback", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["feedbacks"], "summary": "Leave feedback", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/meetings/{meetingID}/feedbacks/experiences": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["feedbacks"], "summary": "Set experience notes", "responses": {"200": {"description": "OK"}}}
        },
        "/meetings/{meetingID}/feedbacks/{feedbackID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["feedbacks"], "summary": "Edit feedback", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["feedbacks"], "summary": "Delete feedback", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/meetings/{meetingID}/timings": {
            "get": {"tags": ["timings"], "summary": "List timings", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["timings"], "summary": "Record a timing", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/meetings/{meetingID}/timings/batch": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["timings"], "summary": "Replace a segment's timings", "responses": {"200": {"description": "OK"}}}
        },
        "/meetings/{meetingID}/timings/batch-all": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["timings"], "summary": "Replace timings of several segments", "responses": {"200": {"description": "OK"}}}
        },
        "/meetings/{meetingID}/timings/{timingID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["timings"], "summary": "Edit a timing", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["timings"], "summary": "Delete a timing", "responses": {"200": {"description": "OK"}}}
        },
        "/meetings/{meetingID}/awards": {
            "get": {"tags": ["votes"], "summary": "List awards", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["votes"], "summary": "Replace awards", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/meetings/{meetingID}/votes": {
            "get": {"tags": ["votes"], "summary": "List voting categories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["votes"], "summary": "Cast votes", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/meetings/{meetingID}/votes/status": {
            "get": {"tags": ["votes"], "summary": "Get voting status", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["votes"], "summary": "Open or close voting", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/meetings/{meetingID}/votes/form": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["votes"], "summary": "Save the vote form", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/meetings/{meetingID}/attendance": {
            "get": {"tags": ["attendance"], "summary": "Meeting attendance", "responses": {"200": {"description": "OK"}}}
        },
        "/posts": {
            "get": {"tags": ["posts"], "summary": "List posts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["posts"], "summary": "Create a post", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/posts/{slug}": {
            "get": {"tags": ["posts"], "summary": "Get a post", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["posts"], "summary": "Edit a post", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["posts"], "summary": "Delete a post", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/stats/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["stats"], "summary": "Dashboard statistics", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ClubHub API",
	Description:      "Meetings, checkins, feedback, timings, votes, posts and attendance for a speaking club.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
