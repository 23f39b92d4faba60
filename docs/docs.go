// Package docs registra la spec OpenAPI que sirve /swagger/doc.json.
// Mismo formato que produce swag init -g cmd/api/main.go; se mantiene en
// sincronía con las anotaciones @Router de los handlers (ver docs_test.go).
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
        "/admin/tags": {
            "post": {
                "description": "Da de alta un tag available con un ID elegido. Si ya existe no se modifica.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Crear tag",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"description": "ID del tag", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tags.createTagRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/tags.createResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/tags/batch": {
            "post": {
                "description": "Da de alta {prefix}{start..start+count-1} con ceros a la izquierda (pad, default 3). Máximo 500.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Crear lote de tags",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"description": "Secuencia", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tags.SequenceInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/tags.createResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/tags/random": {
            "post": {
                "description": "Da de alta count tags con IDs aleatorios [0-9A-Z] (length default 8).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Crear tags aleatorios",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"description": "Cantidad y largo", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tags.createRandomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/tags.createResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}}
                }
            }
        },
        "/admin/tags/{tagID}": {
            "get": {
                "description": null,
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Ver tag",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "ID del tag", "name": "tagID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tags.tagResponse"}},
                    "404": {"description": "tag not found", "schema": {"type": "string"}}
                }
            }
        },
        "/lookup/{id}": {
            "get": {
                "description": "Mismo flujo que /p/{id} pero en JSON. Si la mascota existe devuelve scan_token para reportar la ubicación.",
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Resolver ID (JSON)",
                "parameters": [
                    {"type": "string", "description": "ID del tag o de la mascota", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lookup.lookupResponse"}},
                    "404": {"description": "invalid", "schema": {"$ref": "#/definitions/lookup.lookupResponse"}},
                    "503": {"description": "service unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/p/{id}": {
            "get": {
                "description": "Página HTML del tag: perfil de la mascota, aviso de activación o \"no encontrado\". No distingue mayúsculas.",
                "produces": ["text/html"],
                "tags": ["public"],
                "summary": "Perfil público",
                "parameters": [
                    {"type": "string", "description": "ID del tag o de la mascota", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "perfil o invitación a activar"},
                    "404": {"description": "perfil no encontrado"},
                    "503": {"description": "error temporal"}
                }
            }
        },
        "/p/{id}/scans/{token}": {
            "post": {
                "description": "Cierra el escaneo pendiente con el resultado de geolocalización (obtained, denied, unavailable). Cada token sirve una vez.",
                "consumes": ["application/json"],
                "tags": ["public"],
                "summary": "Reportar ubicación del escaneo",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "scan_token del lookup", "name": "token", "in": "path", "required": true},
                    {"description": "Resultado de la geolocalización", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/lookup.completeScanRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "404": {"description": "unknown scan", "schema": {"type": "string"}}
                }
            }
        },
        "/pets": {
            "get": {
                "description": null,
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Listar mis mascotas",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetResponse"}}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Crea una mascota con ID generado. Para vincular una placa QR usar POST /tags/{tagID}/activate.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registrar mascota sin tag",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"description": "Datos de la mascota", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.createPetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "description": "Solo el dueño. Otros usuarios reciben 403 sin datos.",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Ver mascota",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            },
            "patch": {
                "description": "Solo el dueño puede editar. Los campos omitidos no se tocan; name, owner_name y phone no pueden quedar vacíos.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Editar mascota",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"description": "Campos a modificar", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.updatePetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/scans": {
            "get": {
                "description": "Últimos escaneos del perfil público de la mascota, más reciente primero. Solo el dueño.",
                "produces": ["application/json"],
                "tags": ["scans"],
                "summary": "Historial de escaneos",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "integer", "description": "Máximo de resultados (default 10, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/scans.scanResponse"}}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/tags/{tagID}/activate": {
            "post": {
                "description": "Crea la mascota con el ID del tag y lo marca como linked, en una sola operación atómica.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tags"],
                "summary": "Activar tag",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"},
                    {"type": "string", "description": "ID del tag (no distingue mayúsculas)", "name": "tagID", "in": "path", "required": true},
                    {"description": "Datos de la mascota", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tags.activateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/tags.activationResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "tag not found", "schema": {"type": "string"}},
                    "409": {"description": "tag already linked", "schema": {"type": "string"}},
                    "503": {"description": "service unavailable", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "lookup.PublicPet": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "owner_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "lookup.lookupResponse": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string"},
                "pet": {"$ref": "#/definitions/lookup.PublicPet"},
                "tag_id": {"type": "string"},
                "scan_token": {"type": "string"},
                "scan_url": {"type": "string"}
            }
        },
        "lookup.completeScanRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["obtained", "denied", "unavailable"]},
                "location": {"$ref": "#/definitions/scans.Location"}
            }
        },
        "pets.PetResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "name": {"type": "string"},
                "owner_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"},
                "photo_url": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "pets.createPetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "owner_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "pets.updatePetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "owner_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "scans.Location": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "scans.scanResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "pet_id": {"type": "string"},
                "location": {"$ref": "#/definitions/scans.Location"},
                "location_status": {"type": "string"},
                "timestamp": {"type": "string"},
                "user_agent": {"type": "string"}
            }
        },
        "tags.SequenceInput": {
            "type": "object",
            "properties": {
                "prefix": {"type": "string"},
                "start": {"type": "integer"},
                "count": {"type": "integer"},
                "pad": {"type": "integer"}
            }
        },
        "tags.activateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "owner_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "tags.activationResponse": {
            "type": "object",
            "properties": {
                "pet": {"$ref": "#/definitions/pets.PetResponse"},
                "tag": {"$ref": "#/definitions/tags.tagResponse"}
            }
        },
        "tags.createRandomRequest": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "length": {"type": "integer"}
            }
        },
        "tags.createResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "array", "items": {"$ref": "#/definitions/tags.createdTag"}},
                "skipped": {"type": "array", "items": {"type": "string"}}
            }
        },
        "tags.createTagRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "tags.createdTag": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "tags.tagResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string"},
                "pet_id": {"type": "string"},
                "owner_id": {"type": "string"},
                "created_at": {"type": "string"},
                "linked_at": {"type": "string"},
                "url": {"type": "string"}
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
	Title:            "Pet Tag Lookup API",
	Description:      "Perfiles públicos de mascotas vía QR, activación de tags y registro de escaneos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
