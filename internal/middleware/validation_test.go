package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type createRequest struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("decodes a well-formed body", func(t *testing.T) {
		body := []byte(`{"name":"Widget","sku":"SKU-001"}`)
		req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

		var payload createRequest
		if err := DecodeJSON(req, &payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payload.Name != "Widget" || payload.SKU != "SKU-001" {
			t.Errorf("decoded payload mismatch: %+v", payload)
		}
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/products", bytes.NewReader(nil))

		var payload createRequest
		if err := DecodeJSON(req, &payload); err == nil {
			t.Error("expected error for empty body")
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := []byte(`{"name":"Widget","bogus":true}`)
		req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

		var payload createRequest
		if err := DecodeJSON(req, &payload); err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		body := []byte(`{"name":`)
		req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

		var payload createRequest
		if err := DecodeJSON(req, &payload); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func TestProperty_DecodeJSONRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("any name/sku pair survives decoding", prop.ForAll(
		func(name string, sku string) bool {
			body, _ := json.Marshal(map[string]string{"name": name, "sku": sku})
			req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))

			var payload createRequest
			if err := DecodeJSON(req, &payload); err != nil {
				return false
			}
			return payload.Name == name && payload.SKU == sku
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
