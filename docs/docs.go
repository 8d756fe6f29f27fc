// Package docs registers the OpenAPI description served at /swagger.
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
        "/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Reserve a parking slot",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/bookings/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Move a booking that has not started yet",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/bookings/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Cancel a booking before it runs into overtime",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/penalty/account": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["penalty"],
                "summary": "Current penalty account with its derived phase",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/penalty/session": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["penalty"],
                "summary": "Start or resume the live overtime tracker",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/penalty/car-removed": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["penalty"],
                "summary": "Record that the car has left the bay",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/penalty/payment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["penalty"],
                "summary": "Confirm the overtime penalty has been paid",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/penalty/status/{bookingId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["penalty"],
                "summary": "Passive penalty status for a booking",
                "parameters": [{"type": "string", "name": "bookingId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CampusPark API",
	Description:      "Campus parking reservations and overtime penalties.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
