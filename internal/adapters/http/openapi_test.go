package http_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/samirrijal/cctvlocator/api"
)

func loadOpenAPI(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI document: %v", err)
	}
	return doc
}

// TestOpenAPIDocument validates the embedded OpenAPI document.
func TestOpenAPIDocument(t *testing.T) {
	doc := loadOpenAPI(t)

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI document validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/cameras/nearby",
		"/nearby_cameras",
		"/graphql",
		"/metrics",
	}
	for _, path := range expectedPaths {
		if item := doc.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in document", path)
		}
	}

	expectedSchemas := []string{
		"NearbyCamerasRequest",
		"Camera",
		"NearbyCamera",
		"GraphQLRequest",
		"Health",
		"Readiness",
		"APIError",
	}
	for _, name := range expectedSchemas {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Errorf("expected schema %s not found in document", name)
		}
	}

	if doc.Info.Title != "CCTV Locator API" {
		t.Errorf("expected title 'CCTV Locator API', got %q", doc.Info.Title)
	}
}

func TestOpenAPIDocument_LegacyPathDeprecated(t *testing.T) {
	doc := loadOpenAPI(t)

	legacy := doc.Paths.Find("/nearby_cameras")
	if legacy == nil || legacy.Post == nil {
		t.Fatal("legacy search path missing")
	}
	if !legacy.Post.Deprecated {
		t.Error("POST /nearby_cameras should be marked deprecated")
	}
	current := doc.Paths.Find("/v1/cameras/nearby")
	if current == nil || current.Post == nil || current.Post.Deprecated {
		t.Error("POST /v1/cameras/nearby should exist and not be deprecated")
	}
}

func TestOpenAPIDocument_RequestBounds(t *testing.T) {
	doc := loadOpenAPI(t)

	req := doc.Components.Schemas["NearbyCamerasRequest"].Value
	if len(req.Required) != 2 {
		t.Errorf("expected latitude and longitude required, got %v", req.Required)
	}
	lat := req.Properties["latitude"].Value
	if lat.Min == nil || *lat.Min != -90 || lat.Max == nil || *lat.Max != 90 {
		t.Errorf("latitude bounds wrong: min=%v max=%v", lat.Min, lat.Max)
	}
	radius := req.Properties["radius_meters"].Value
	if fmt.Sprint(radius.Default) != "500" {
		t.Errorf("radius default = %v, want 500", radius.Default)
	}
	if radius.Max != nil {
		t.Errorf("radius should have no documented maximum, got %v", *radius.Max)
	}
}
