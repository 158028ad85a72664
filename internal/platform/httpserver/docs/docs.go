// Package docs registers the OpenAPI document served under /swagger/.
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
        "/api/catalog/v1/products": {
            "get": {
                "tags": ["products"],
                "summary": "List products",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["products"],
                "summary": "Create a product",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/catalog/v1/products/{product_id}": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/catalog/v1/products/{product_id}/price": {
            "post": {
                "tags": ["products"],
                "summary": "Change a product price",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/cart/v1/cart": {
            "get": {
                "tags": ["cart"],
                "summary": "Get the buyer's cart",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/cart/v1/cart/items": {
            "post": {
                "tags": ["cart"],
                "summary": "Add an item to the cart",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/cart/v1/cart/items/{product_id}": {
            "delete": {
                "tags": ["cart"],
                "summary": "Remove an item from the cart",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/buyers/v1/buyers": {
            "post": {
                "tags": ["buyers"],
                "summary": "Register a buyer",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/buyers/v1/buyers/{buyer_id}": {
            "get": {
                "tags": ["buyers"],
                "summary": "Get a buyer",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/sellers/v1/sellers": {
            "post": {
                "tags": ["sellers"],
                "summary": "Register a seller",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/sellers/v1/sellers/{seller_id}": {
            "get": {
                "tags": ["sellers"],
                "summary": "Get a seller",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/sellers/v1/sellers/{seller_id}/activate": {
            "post": {
                "tags": ["sellers"],
                "summary": "Activate a seller",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Caravel API",
	Description:      "Modular commerce backend with reliable cross-domain event publication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
