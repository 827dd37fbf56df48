package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"si-components/internal/types"
)

// ConfigValidator checks the shape of raw component records. It never stops
// at the first violation so a caller can report everything in one pass.
type ConfigValidator struct{}

var recordFields = map[string]struct{}{
	"name":          {},
	"schema_name":   {},
	"attributes":    {},
	"domain":        {},
	"secrets":       {},
	"resource_id":   {},
	"view_name":     {},
	"connections":   {},
	"subscriptions": {},
	"managed_by":    {},
}

func NewConfigValidator() ConfigValidator {
	return ConfigValidator{}
}

// Validate decodes raw into a ComponentConfig. The config is only usable when
// the returned violations slice is empty.
func (v ConfigValidator) Validate(raw any) (types.ComponentConfig, []string) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return types.ComponentConfig{}, []string{fmt.Sprintf("record must be an object, got %s", describeValue(raw))}
	}

	var cfg types.ComponentConfig
	var violations []string

	cfg.Name = requiredString(obj, "name", &violations)
	cfg.SchemaName = requiredString(obj, "schema_name", &violations)
	cfg.ResourceID = optionalString(obj, "resource_id", &violations)
	cfg.ViewName = optionalString(obj, "view_name", &violations)

	cfg.Attributes = optionalMapping(obj, "attributes", &violations)
	cfg.Domain = optionalMapping(obj, "domain", &violations)
	cfg.Secrets = optionalMapping(obj, "secrets", &violations)
	cfg.Subscriptions = optionalMapping(obj, "subscriptions", &violations)
	cfg.ManagedBy = optionalMapping(obj, "managed_by", &violations)

	if connections, present := obj["connections"]; present && connections != nil {
		switch connections.(type) {
		case map[string]any, []any:
			cfg.Connections = connections
		default:
			violations = append(violations, fmt.Sprintf("connections must be an object or a list, got %s", describeValue(connections)))
		}
	}

	for _, key := range sortedKeys(obj) {
		if _, known := recordFields[key]; known || strings.HasPrefix(key, "_") {
			continue
		}
		violations = append(violations, fmt.Sprintf("unknown field %q", key))
	}

	for _, field := range []struct {
		name   string
		values map[string]any
	}{
		{"attributes", cfg.Attributes},
		{"domain", cfg.Domain},
		{"secrets", cfg.Secrets},
	} {
		for _, key := range sortedKeys(field.values) {
			checkReferences(field.values[key], field.name+"["+key+"]", &violations)
		}
	}

	if DetectStyle(cfg) == types.StyleMixed {
		violations = append(violations, "attributes mix path-addressed keys with legacy domain/secrets or bare keys")
	}
	for _, key := range sortedKeys(cfg.Domain) {
		if _, dup := cfg.Attributes[key]; dup {
			violations = append(violations, fmt.Sprintf("key %q is set in both domain and attributes", key))
		}
	}

	return cfg, violations
}

// DetectStyle reports which attribute dialect a record uses.
func DetectStyle(cfg types.ComponentConfig) types.AttributeStyle {
	legacy := len(cfg.Domain) > 0 || len(cfg.Secrets) > 0
	path := false
	for key := range cfg.Attributes {
		if strings.HasPrefix(key, "/") {
			path = true
		} else {
			legacy = true
		}
	}
	switch {
	case legacy && path:
		return types.StyleMixed
	case path:
		return types.StylePath
	case legacy:
		return types.StyleLegacy
	default:
		return types.StyleEmpty
	}
}

func requiredString(obj map[string]any, key string, violations *[]string) string {
	raw, present := obj[key]
	if !present || raw == nil {
		*violations = append(*violations, fmt.Sprintf("%s is required", key))
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		*violations = append(*violations, fmt.Sprintf("%s must be a string, got %s", key, describeValue(raw)))
		return ""
	}
	if strings.TrimSpace(value) == "" {
		*violations = append(*violations, fmt.Sprintf("%s must not be empty", key))
	}
	return value
}

func optionalString(obj map[string]any, key string, violations *[]string) string {
	raw, present := obj[key]
	if !present || raw == nil {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		*violations = append(*violations, fmt.Sprintf("%s must be a string, got %s", key, describeValue(raw)))
		return ""
	}
	return value
}

func optionalMapping(obj map[string]any, key string, violations *[]string) map[string]any {
	raw, present := obj[key]
	if !present || raw == nil {
		return nil
	}
	switch value := raw.(type) {
	case map[string]any:
		return value
	case map[any]any:
		*violations = append(*violations, fmt.Sprintf("%s keys must be strings", key))
		return nil
	default:
		*violations = append(*violations, fmt.Sprintf("%s must be an object, got %s", key, describeValue(raw)))
		return nil
	}
}

// checkReferences walks value and reports malformed $source markers.
func checkReferences(value any, at string, violations *[]string) {
	switch typed := value.(type) {
	case map[string]any:
		if source, ok := typed[types.SourceKey]; ok {
			checkMarker(source, at, violations)
			return
		}
		for _, key := range sortedKeys(typed) {
			checkReferences(typed[key], at+"."+key, violations)
		}
	case map[any]any:
		*violations = append(*violations, fmt.Sprintf("%s: object keys must be strings", at))
	case []any:
		for i, item := range typed {
			checkReferences(item, fmt.Sprintf("%s[%d]", at, i), violations)
		}
	}
}

func checkMarker(source any, at string, violations *[]string) {
	marker, ok := source.(map[string]any)
	if !ok {
		*violations = append(*violations, fmt.Sprintf("%s: %s must be an object, got %s", at, types.SourceKey, describeValue(source)))
		return
	}
	for _, key := range []string{"component", "path"} {
		raw, present := marker[key]
		if !present {
			*violations = append(*violations, fmt.Sprintf("%s: %s.%s is required", at, types.SourceKey, key))
			continue
		}
		value, isString := raw.(string)
		if !isString || strings.TrimSpace(value) == "" {
			*violations = append(*violations, fmt.Sprintf("%s: %s.%s must be a non-empty string", at, types.SourceKey, key))
		}
	}
}

func describeValue(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, int, int64, uint64, float64:
		return "number"
	case []any:
		return "list"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
