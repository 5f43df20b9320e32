// Package docs holds the OpenAPI document of the registry API in the layout
// generated by swaggo/swag. Regenerate with
//
//	swag init -g cmd/httpserver/main.go -o api/docs --parseDependency
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
        "/health": {
            "get": {
                "summary": "Health check",
                "tags": [
                    "System"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "success": {
                                    "type": "boolean"
                                },
                                "message": {
                                    "type": "string"
                                },
                                "error": {
                                    "type": "string"
                                },
                                "code": {
                                    "type": "string"
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/init": {
            "post": {
                "summary": "Initialize the registry",
                "tags": [
                    "Registry"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "0x<address>:0x<signature> over the request",
                        "name": "X-Registry-Signature",
                        "in": "header",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Unix timestamp covered by the signature",
                        "name": "X-Registry-Timestamp",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.InitRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.AdminEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/admin": {
            "get": {
                "summary": "Get the registry admin",
                "tags": [
                    "Registry"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.AdminEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates": {
            "post": {
                "summary": "Issue a certificate",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "0x<address>:0x<signature> over the request",
                        "name": "X-Registry-Signature",
                        "in": "header",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Unix timestamp covered by the signature",
                        "name": "X-Registry-Timestamp",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.IssueRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.CertificateEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates/{cert_id}": {
            "get": {
                "summary": "Get certificate details",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Certificate id",
                        "name": "cert_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.CertificateEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates/{cert_id}/verify": {
            "post": {
                "summary": "Verify a certificate",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Certificate id",
                        "name": "cert_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.VerifyRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.VerifyEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates/{cert_id}/verify-document": {
            "post": {
                "summary": "Verify a certificate against its metadata document",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Certificate id",
                        "name": "cert_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Metadata document",
                        "name": "document",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.VerifyEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates/{cert_id}/transfer": {
            "post": {
                "summary": "Transfer a certificate",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Certificate id",
                        "name": "cert_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "0x<address>:0x<signature> over the request",
                        "name": "X-Registry-Signature",
                        "in": "header",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Unix timestamp covered by the signature",
                        "name": "X-Registry-Timestamp",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.TransferRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.CertificateEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates/{cert_id}/revoke": {
            "post": {
                "summary": "Revoke a certificate",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Certificate id",
                        "name": "cert_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "0x<address>:0x<signature> over the request",
                        "name": "X-Registry-Signature",
                        "in": "header",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Unix timestamp covered by the signature",
                        "name": "X-Registry-Timestamp",
                        "in": "header",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.CertificateEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/certificates/{cert_id}/exists": {
            "get": {
                "summary": "Check certificate existence",
                "tags": [
                    "Certificates"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Certificate id",
                        "name": "cert_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.ExistsEnvelope"
                        }
                    }
                }
            }
        },
        "/api/metadata": {
            "post": {
                "summary": "Store a metadata document",
                "tags": [
                    "Metadata"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "metadata (default) or media",
                        "name": "type",
                        "in": "query"
                    },
                    {
                        "description": "Document bytes",
                        "name": "document",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.MetadataEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        },
        "/api/metadata/{content_id}": {
            "get": {
                "summary": "Fetch a metadata document",
                "tags": [
                    "Metadata"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Hex SHA-256 of the document",
                        "name": "content_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "metadata (default) or media",
                        "name": "type",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "api.InitRequest": {
            "type": "object",
            "properties": {
                "admin_address": {
                    "type": "string"
                }
            }
        },
        "api.IssueRequest": {
            "type": "object",
            "properties": {
                "cert_id": {
                    "type": "string"
                },
                "metadata_hash": {
                    "type": "string"
                },
                "owner_address": {
                    "type": "string"
                }
            }
        },
        "api.VerifyRequest": {
            "type": "object",
            "properties": {
                "metadata_hash": {
                    "type": "string"
                }
            }
        },
        "api.TransferRequest": {
            "type": "object",
            "properties": {
                "new_owner_address": {
                    "type": "string"
                }
            }
        },
        "api.CertificateResponse": {
            "type": "object",
            "properties": {
                "cert_id": {
                    "type": "string"
                },
                "owner": {
                    "type": "string"
                },
                "metadata_hash": {
                    "type": "string"
                },
                "is_valid": {
                    "type": "boolean"
                }
            }
        },
        "api.VerifyResponse": {
            "type": "object",
            "properties": {
                "cert_id": {
                    "type": "string"
                },
                "metadata_hash": {
                    "type": "string"
                },
                "valid": {
                    "type": "boolean"
                }
            }
        },
        "api.ExistsResponse": {
            "type": "object",
            "properties": {
                "cert_id": {
                    "type": "string"
                },
                "exists": {
                    "type": "boolean"
                }
            }
        },
        "api.AdminResponse": {
            "type": "object",
            "properties": {
                "admin_address": {
                    "type": "string"
                }
            }
        },
        "api.MetadataResponse": {
            "type": "object",
            "properties": {
                "content_id": {
                    "type": "string"
                },
                "content_type": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                },
                "locations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "api.ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "api.AdminEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "data": {
                    "$ref": "#/definitions/api.AdminResponse"
                }
            }
        },
        "api.CertificateEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "data": {
                    "$ref": "#/definitions/api.CertificateResponse"
                }
            }
        },
        "api.VerifyEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "data": {
                    "$ref": "#/definitions/api.VerifyResponse"
                }
            }
        },
        "api.ExistsEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "data": {
                    "$ref": "#/definitions/api.ExistsResponse"
                }
            }
        },
        "api.MetadataEnvelope": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "data": {
                    "$ref": "#/definitions/api.MetadataResponse"
                }
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
	Title:            "Certificate Registry API",
	Description:      "Issue, verify, transfer and revoke authenticity certificates for physical goods.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
