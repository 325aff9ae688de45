package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Virtual Exhibit Submissions API",
        "description": "Moderation and publishing pipeline for museum virtual exhibits",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Submissions", "description": "Museum submission lifecycle"},
        {"name": "Review", "description": "Reviewer decisions and publishing"},
        {"name": "Discovery", "description": "Public exhibit feed and engagement"}
    ],
    "paths": {
        "/submissions": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List the caller's organization submissions",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "description": "Comma separated statuses"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Submissions"],
                "summary": "Create a submission",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation, scope or referential integrity failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/artifacts": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Catalog artifacts available to the caller's organization",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/stats": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Submission statistics for the caller's organization",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/stats/export": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Download submission statistics",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/submissions/{id}": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Get a submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Submissions"],
                "summary": "Update an editable submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubmissionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Submissions"],
                "summary": "Soft-delete an editable submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/submissions/{id}/submit": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit for review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/{id}/history": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Status history of a submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/{id}/review": {
            "post": {
                "tags": ["Review"],
                "summary": "Approve or reject a submission under review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewSubmissionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Caller is not a reviewer", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/{id}/publish": {
            "post": {
                "tags": ["Review"],
                "summary": "Publish an approved submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/PublishSubmissionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/submissions": {
            "get": {
                "tags": ["Discovery"],
                "summary": "Public exhibit feed",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "featured", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/submissions/{id}": {
            "get": {
                "tags": ["Discovery"],
                "summary": "View a published exhibit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "X-Visitor-ID", "in": "header", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not public", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/submissions/{id}/ratings": {
            "post": {
                "tags": ["Discovery"],
                "summary": "Rate a published exhibit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/submissions/{id}/favorite": {
            "post": {
                "tags": ["Discovery"],
                "summary": "Favorite a published exhibit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/submissions/{id}/share": {
            "post": {
                "tags": ["Discovery"],
                "summary": "Record a share of a published exhibit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ArtifactReference": {
            "type": "object",
            "required": ["artifact_id"],
            "properties": {
                "artifact_id": {"type": "string"},
                "display_order": {"type": "integer"},
                "custom_description": {"type": "string", "maxLength": 500},
                "featured": {"type": "boolean"}
            }
        },
        "CreateSubmissionRequest": {
            "type": "object",
            "required": ["title", "type"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "type": {"type": "string", "enum": ["EXHIBITION", "3D_EXPERIENCE", "GALLERY", "DIGITAL_ARCHIVE", "INTERACTIVE_TOUR"]},
                "description": {"type": "string", "maxLength": 2000},
                "layout": {"type": "string", "enum": ["GRID", "CAROUSEL", "TIMELINE", "3D_SPACE", "STORY"]},
                "theme": {"type": "object"},
                "accessibility": {"type": "object"},
                "media": {"type": "object"},
                "interactive": {"type": "object"},
                "seo": {"type": "object"},
                "artifacts": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ArtifactReference"}
                }
            }
        },
        "ReviewSubmissionRequest": {
            "type": "object",
            "required": ["decision"],
            "properties": {
                "decision": {"type": "string", "enum": ["APPROVED", "REJECTED"]},
                "feedback": {"type": "string", "maxLength": 1000},
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "rejection_reason": {"type": "string", "maxLength": 500}
            }
        },
        "PublishSubmissionRequest": {
            "type": "object",
            "properties": {
                "featured": {"type": "boolean"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RatingRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
