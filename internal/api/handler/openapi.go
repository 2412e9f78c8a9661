package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/api/response"
)

// OpenAPIDocument is the rendered JSON form of the embedded API description.
type OpenAPIDocument struct {
	body []byte
	etag string
	err  error
}

// RenderOpenAPI converts the YAML description to JSON. When serverURL is set it
// replaces the document's servers list so the description points at this
// deployment. A conversion failure is kept and reported on every request.
func RenderOpenAPI(yamlDoc []byte, serverURL string) *OpenAPIDocument {
	body, err := renderOpenAPI(yamlDoc, serverURL)
	if err != nil {
		return &OpenAPIDocument{err: err}
	}
	sum := sha256.Sum256(body)
	return &OpenAPIDocument{body: body, etag: `"` + hex.EncodeToString(sum[:8]) + `"`}
}

func renderOpenAPI(yamlDoc []byte, serverURL string) ([]byte, error) {
	raw, err := yaml.YAMLToJSON(yamlDoc)
	if err != nil {
		return nil, fmt.Errorf("converting OpenAPI YAML: %w", err)
	}
	if serverURL == "" {
		return raw, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding OpenAPI document: %w", err)
	}
	doc["servers"] = []map[string]string{{"url": serverURL}}
	return json.Marshal(doc)
}

func (d *OpenAPIDocument) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if d.err != nil {
		slog.Error("failed to render OpenAPI document", "error", d.err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render API description", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("ETag", d.etag)
	if r.Header.Get("If-None-Match") == d.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(d.body); err != nil {
		slog.Debug("writing OpenAPI response", "error", err)
	}
}
