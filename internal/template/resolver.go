package template

import (
	"regexp"
	"strings"
)

// Resolver substitutes {{variable}} placeholders with values from a
// variable map. It holds no state and is safe for concurrent use.
type Resolver struct{}

// NewResolver creates a new template resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// placeholderPattern matches template placeholders like {{variable}}
var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Resolve replaces every {{name}} placeholder whose name (whitespace
// trimmed) is present in vars. Unknown placeholders stay untouched, so
// resolving a fully resolved string again is a no-op.
func (r *Resolver) Resolve(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		// Extract variable name (remove {{ and }})
		name := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// ResolveHeaders resolves each header value independently. Keys are never
// templated. Entries with an empty value are dropped instead of resolved.
func (r *Resolver) ResolveHeaders(headers map[string]string, vars map[string]string) map[string]string {
	result := make(map[string]string, len(headers))
	for key, value := range headers {
		if value == "" {
			continue
		}
		result[key] = r.Resolve(value, vars)
	}
	return result
}

// ResolveBody resolves a request body. If the body parses as a JSON object
// or array, only string leaf values are substituted and the document is
// re-serialized with key order and nesting preserved. Anything else is
// treated as one template string.
func (r *Resolver) ResolveBody(body string, vars map[string]string) string {
	if len(vars) == 0 || body == "" {
		return body
	}

	doc, ok := parseDocument(body)
	if !ok {
		return r.Resolve(body, vars)
	}

	r.resolveDoc(&doc, vars)
	return encodeDocument(doc)
}

// resolveDoc walks the document tree and substitutes string leaves in place.
// Non-string leaves pass through unchanged.
func (r *Resolver) resolveDoc(v *docValue, vars map[string]string) {
	switch v.kind {
	case docString:
		v.str = r.Resolve(v.str, vars)
	case docArray:
		for i := range v.arr {
			r.resolveDoc(&v.arr[i], vars)
		}
	case docObject:
		for i := range v.obj {
			r.resolveDoc(&v.obj[i].val, vars)
		}
	}
}
