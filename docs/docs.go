// Package docs registers the Swagger document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Chess Directory"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Returns API name, version, status, storage driver and enabled features.",
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "API root info",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/seed": {
            "get": {
                "description": "Development utility. Inserts the sample tournaments; fails with 400 when they already exist.",
                "produces": ["application/json"],
                "tags": ["dev"],
                "summary": "Seed sample data",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/respond.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.seedCount"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/tournaments": {
            "get": {
                "description": "Paginated list, newest first. title and city are case-insensitive substring filters.",
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "List tournaments",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size (1-100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Title contains", "name": "title", "in": "query"},
                    {"type": "string", "description": "City contains", "name": "city", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/respond.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/tournament.Page"}}}
                            ]
                        }
                    },
                    "304": {"description": "Not modified"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "post": {
                "description": "Validates the full payload, applies defaults and stores it. Titles are unique; a title already in use returns 409.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Create tournament",
                "parameters": [
                    {"description": "Tournament payload", "name": "tournament", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tournament.Tournament"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/respond.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/tournament.Tournament"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/tournaments/{id}": {
            "get": {
                "description": "Returns one tournament by id.",
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Get tournament",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/respond.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/tournament.Tournament"}}}
                            ]
                        }
                    },
                    "304": {"description": "Not modified"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "put": {
                "description": "Partial update. Only keys present in the body change; nullable fields accept null. Renaming to a title already in use returns 409.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Update tournament",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "changes", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/respond.Envelope"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/tournament.Tournament"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "delete": {
                "description": "Deletes one tournament by id.",
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Delete tournament",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns basic health status and timestamp.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/cache": {
            "get": {
                "description": "Returns in-memory cache statistics (active keys, expired keys, generation).",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Cache health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/db": {
            "get": {
                "description": "Verifies Postgres connectivity. Always healthy on the memory store.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "handler.seedCount": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"}
            }
        },
        "respond.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "tournament.AgeCategory": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "gender": {"type": "string"}
            }
        },
        "tournament.FoodOption": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "type": {"type": "string"}
            }
        },
        "tournament.Page": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "tournaments": {"type": "array", "items": {"$ref": "#/definitions/tournament.Tournament"}}
            }
        },
        "tournament.Tournament": {
            "type": "object",
            "properties": {
                "ageCategories": {"type": "array", "items": {"$ref": "#/definitions/tournament.AgeCategory"}},
                "alternateContact": {"type": "string"},
                "brochureUrl": {"type": "string"},
                "chessboardProvided": {"type": "boolean"},
                "chiefArbiterName": {"type": "string"},
                "city": {"type": "string"},
                "contactNumber": {"type": "string"},
                "contactPersonName": {"type": "string"},
                "country": {"type": "string"},
                "createdAt": {"type": "string"},
                "district": {"type": "string"},
                "districtApproval": {"type": "boolean"},
                "emailId": {"type": "string"},
                "endDate": {"type": "string"},
                "fideRated": {"type": "boolean"},
                "foodOptions": {"type": "array", "items": {"$ref": "#/definitions/tournament.FoodOption"}},
                "hasFoodFacility": {"type": "boolean"},
                "id": {"type": "integer"},
                "locationLatitude": {"type": "number"},
                "locationLongitude": {"type": "number"},
                "nationalApproval": {"type": "boolean"},
                "nearestLandmark": {"type": "string"},
                "numberOfRounds": {"type": "integer"},
                "numberOfTrophiesFemale": {"type": "integer"},
                "numberOfTrophiesMale": {"type": "integer"},
                "organizerName": {"type": "string"},
                "parkingFacility": {"type": "integer"},
                "pincode": {"type": "string"},
                "registrationDeadline": {"type": "string"},
                "registrationDeadlineTime": {"type": "string"},
                "registrationFeesAmount": {"type": "number"},
                "registrationFeesCurrency": {"type": "string"},
                "reportingTime": {"type": "string"},
                "startDate": {"type": "string"},
                "state": {"type": "string"},
                "stateApproval": {"type": "boolean"},
                "timeControlDuration": {"type": "string"},
                "timeControlIncrement": {"type": "string"},
                "timeControlType": {"type": "string"},
                "timerProvided": {"type": "boolean"},
                "title": {"type": "string"},
                "totalCashPrize": {"type": "number"},
                "tournamentDirectorName": {"type": "string"},
                "tournamentLevel": {"type": "string"},
                "tournamentType": {"type": "string"},
                "updatedAt": {"type": "string"},
                "venueAddress": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Chess Tournament Directory API",
	Description:      "Create, search, update and delete chess tournament listings. Every response uses the {success, data, error, message} envelope.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
