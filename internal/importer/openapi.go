package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/rsharma/restlab/internal/models"
)

// Importer converts OpenAPI 3 documents into mock endpoint tables
type Importer struct{}

// NewImporter creates a new OpenAPI importer
func NewImporter() *Importer {
	return &Importer{}
}

// Import parses an OpenAPI 3 document and produces one mock endpoint per
// operation. Path parameters like {id} become :id markers; the endpoint
// body comes from the first documented success response's example.
func (i *Importer) Import(content string) ([]models.MockEndpoint, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	var endpoints []models.MockEndpoint

	for pathPattern, pathItem := range doc.Paths.Map() {
		if pathItem == nil {
			continue
		}

		methods := map[string]*openapi3.Operation{
			"GET":     pathItem.Get,
			"POST":    pathItem.Post,
			"PUT":     pathItem.Put,
			"DELETE":  pathItem.Delete,
			"PATCH":   pathItem.Patch,
			"HEAD":    pathItem.Head,
			"OPTIONS": pathItem.Options,
		}

		for method, op := range methods {
			if op == nil {
				continue
			}

			status, body, headers := exampleResponse(op)

			endpoints = append(endpoints, models.MockEndpoint{
				ID:           uuid.New().String(),
				Method:       method,
				PathPattern:  convertPath(pathPattern),
				ResponseBody: body,
				StatusCode:   status,
				Headers:      headers,
			})
		}
	}

	return endpoints, nil
}

// convertPath rewrites OpenAPI path parameters {name} as :name markers
func convertPath(pathPattern string) string {
	segments := strings.Split(pathPattern, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2 {
			segments[i] = ":" + seg[1:len(seg)-1]
		}
	}
	return strings.Join(segments, "/")
}

// exampleResponse extracts the first documented success response
func exampleResponse(op *openapi3.Operation) (int, string, map[string]string) {
	if op.Responses == nil {
		return http.StatusOK, "", nil
	}

	for _, status := range []int{200, 201, 202, 204} {
		response := op.Responses.Status(status)
		if response == nil || response.Value == nil {
			continue
		}

		headers := make(map[string]string)
		for name, header := range response.Value.Headers {
			if header.Value != nil && header.Value.Example != nil {
				headers[name] = fmt.Sprintf("%v", header.Value.Example)
			}
		}

		var body string
		for mediaType, content := range response.Value.Content {
			if !strings.Contains(mediaType, "json") {
				continue
			}
			headers["Content-Type"] = mediaType

			if content.Example != nil {
				body = formatExample(content.Example)
			} else if len(content.Examples) > 0 {
				for _, ex := range content.Examples {
					if ex.Value != nil && ex.Value.Value != nil {
						body = formatExample(ex.Value.Value)
						break
					}
				}
			} else if content.Schema != nil && content.Schema.Value != nil {
				body = exampleFromSchema(content.Schema.Value)
			}
			break
		}

		if body != "" || status == 204 {
			return status, body, headers
		}
	}

	return http.StatusOK, "", nil
}

// formatExample converts an example value to a JSON string
func formatExample(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		if data, err := json.Marshal(val); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", val)
	}
}

// exampleFromSchema generates a minimal example from an OpenAPI schema
func exampleFromSchema(schema *openapi3.Schema) string {
	if schema.Example != nil {
		return formatExample(schema.Example)
	}

	if schema.Type == nil || len(schema.Type.Slice()) == 0 {
		return "null"
	}

	switch schema.Type.Slice()[0] {
	case "object":
		return "{}"
	case "array":
		return "[]"
	case "string":
		return `"string"`
	case "integer":
		return "0"
	case "number":
		return "0.0"
	case "boolean":
		return "false"
	default:
		return "null"
	}
}
