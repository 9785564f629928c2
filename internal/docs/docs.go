// Package docs serves the embedded OpenAPI document.
package docs

import (
	"context"
	"fmt"
	"net/http"

	apphttp "user_management_backend/internal/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

// Module exposes GET /api-docs/openapi.json.
type Module struct {
	doc  *openapi3.T
	json []byte
}

// Load parses and validates raw, failing on an invalid document.
func Load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// NewModule loads the document once at startup.
func NewModule(ctx context.Context, raw []byte) (*Module, error) {
	doc, err := Load(ctx, raw)
	if err != nil {
		return nil, err
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return &Module{doc: doc, json: data}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "docs"
}

// Document returns the parsed document.
func (m *Module) Document() *openapi3.T {
	return m.doc
}

// RegisterRoutes mounts the document route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/api-docs/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", m.json)
	})
}

var _ apphttp.Module = (*Module)(nil)
