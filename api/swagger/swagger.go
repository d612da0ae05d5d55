// Package swagger registers a hand-written Swagger document for the
// scheduling server, served at /docs by swaggo/gin-swagger.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "schedgen API",
        "description": "Weekly schedule option generator",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "paths": {
        "/catalogs": {
            "post": {
                "summary": "Reload the served catalog",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Accepted"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/catalogs/{id}/generate": {
            "post": {
                "summary": "Stream feasible schedule assignments as newline-delimited JSON",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "NDJSON stream of assignments"},
                    "400": {"description": "Invalid request"}
                }
            }
        },
        "/catalogs/{id}/export": {
            "post": {
                "summary": "Enqueue an asynchronous CSV/PDF export of the filtered assignment stream",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted, returns a job id"}
                }
            }
        },
        "/exports/{jobID}": {
            "get": {
                "summary": "Poll the status of an export job",
                "parameters": [
                    {"name": "jobID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Job status"},
                    "404": {"description": "Unknown job"}
                }
            }
        },
        "/exports/{jobID}/file": {
            "get": {
                "summary": "Download a finished export via a signed URL token",
                "parameters": [
                    {"name": "jobID", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File contents"},
                    "403": {"description": "Invalid or expired token"},
                    "404": {"description": "Unknown or unfinished job"}
                }
            }
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

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
