package types

// ComponentConfig is one component configuration record. Attributes may be
// legacy flat keys or path-addressed keys ("/domain/X", "/secrets/Y"); after
// normalization only the path-addressed form remains and Domain/Secrets are
// empty.
type ComponentConfig struct {
	Name          string         `json:"name" yaml:"name"`
	SchemaName    string         `json:"schema_name" yaml:"schema_name"`
	Attributes    map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Domain        map[string]any `json:"domain,omitempty" yaml:"domain,omitempty"`
	Secrets       map[string]any `json:"secrets,omitempty" yaml:"secrets,omitempty"`
	ResourceID    string         `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	ViewName      string         `json:"view_name,omitempty" yaml:"view_name,omitempty"`
	Connections   any            `json:"connections,omitempty" yaml:"connections,omitempty"`
	Subscriptions map[string]any `json:"subscriptions,omitempty" yaml:"subscriptions,omitempty"`
	ManagedBy     map[string]any `json:"managed_by,omitempty" yaml:"managed_by,omitempty"`

	// Source is the file the record was loaded from. Not serialized.
	Source string `json:"-" yaml:"-"`
}

// RawRecord is one decoded value from a configuration file, before
// validation. Index is the position inside a top-level array, or 0 for a
// single-object file.
type RawRecord struct {
	Source string
	Index  int
	Value  any
}

// Subject returns a label for reporting problems about the record.
func (r RawRecord) Subject() string {
	if obj, ok := r.Value.(map[string]any); ok {
		if name, ok := obj["name"].(string); ok && name != "" {
			return name
		}
	}
	return r.Source
}

// ReferenceMarker is a deferred link to another component's attribute,
// resolved by the SI API when the change set is applied.
type ReferenceMarker struct {
	Component string `json:"component" yaml:"component"`
	Path      string `json:"path" yaml:"path"`
}

const SourceKey = "$source"

// NewReference returns the JSON shape of a reference marker.
func NewReference(component string, path string) map[string]any {
	return map[string]any{
		SourceKey: map[string]any{
			"component": component,
			"path":      path,
		},
	}
}

// AsReference reports whether value is a reference marker and returns it.
func AsReference(value any) (ReferenceMarker, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return ReferenceMarker{}, false
	}
	raw, ok := obj[SourceKey].(map[string]any)
	if !ok {
		return ReferenceMarker{}, false
	}
	component, _ := raw["component"].(string)
	path, _ := raw["path"].(string)
	if component == "" || path == "" {
		return ReferenceMarker{}, false
	}
	return ReferenceMarker{Component: component, Path: path}, true
}

// CreateComponentRequest is the body of a create-component call.
type CreateComponentRequest struct {
	Name          string         `json:"name"`
	SchemaName    string         `json:"schemaName"`
	Attributes    map[string]any `json:"attributes"`
	ResourceID    string         `json:"resourceId,omitempty"`
	ViewName      string         `json:"viewName,omitempty"`
	Connections   any            `json:"connections,omitempty"`
	Subscriptions map[string]any `json:"subscriptions,omitempty"`
	ManagedBy     map[string]any `json:"managedBy,omitempty"`
}
