// Package openapi embeds the HTTP API description and renders it for the
// /apidocs and /apispec_1.json endpoints.
package openapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var specYAML []byte

// YAML returns a copy of the embedded OpenAPI document.
func YAML() []byte {
	return append([]byte(nil), specYAML...)
}

// JSON returns the embedded OpenAPI document encoded as JSON.
func JSON() ([]byte, error) {
	var doc map[string]any
	err := yaml.Unmarshal(specYAML, &doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Paths returns the templated paths the document describes, in OpenAPI
// form ("/items/{item_id}/tags").
func Paths() ([]string, error) {
	var doc struct {
		Paths map[string]any `yaml:"paths"`
	}
	err := yaml.Unmarshal(specYAML, &doc)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	return paths, nil
}

const swaggerUITemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>itemtag API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "%s", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

// SwaggerUI renders a Swagger UI page loading the document from specURL.
func SwaggerUI(specURL string) string {
	return fmt.Sprintf(swaggerUITemplate, html.EscapeString(specURL))
}
