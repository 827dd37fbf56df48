package types

import "time"

type ChangeSet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	IsHead bool   `json:"is_head"`
}

type ComponentSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	SchemaName      string    `json:"schema_name"`
	SchemaID        string    `json:"schema_id,omitempty"`
	SchemaVariantID string    `json:"schema_variant_id,omitempty"`
	ResourceID      string    `json:"resource_id,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
}

// Socket is an input or output connection point on a schema variant or a
// component.
type Socket struct {
	Name      string `json:"name"`
	Direction string `json:"direction,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Path      string `json:"attribute_path,omitempty"`
}

const (
	SocketInput  = "input"
	SocketOutput = "output"
)

type ComponentDetail struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	SchemaID        string         `json:"schema_id"`
	SchemaVariantID string         `json:"schema_variant_id"`
	ResourceID      string         `json:"resource_id,omitempty"`
	ToDelete        bool           `json:"to_delete"`
	CanBeUpgraded   bool           `json:"can_be_upgraded"`
	Attributes      map[string]any `json:"attributes"`
	Sockets         []Socket       `json:"sockets,omitempty"`
	Connections     []any          `json:"connections,omitempty"`
}

// OutputSockets returns the sockets other components can subscribe to.
func (d ComponentDetail) OutputSockets() []Socket {
	var out []Socket
	for _, socket := range d.Sockets {
		if socket.Direction == SocketOutput {
			out = append(out, socket)
		}
	}
	return out
}

type CreatedComponent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SchemaSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Category    string `json:"category,omitempty"`
	Installed   bool   `json:"installed"`
}

// Matches reports whether name is the schema's name or display name.
func (s SchemaSummary) Matches(name string) bool {
	return name != "" && (s.Name == name || s.DisplayName == name)
}

// PropDef describes one attribute of a schema variant's domain tree.
type PropDef struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Kind        string `json:"kind,omitempty"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

type SchemaVariant struct {
	VariantID     string    `json:"variant_id"`
	DisplayName   string    `json:"display_name"`
	Category      string    `json:"category,omitempty"`
	Description   string    `json:"description,omitempty"`
	DomainProps   []PropDef `json:"domain_props,omitempty"`
	InputSockets  []Socket  `json:"input_sockets,omitempty"`
	OutputSockets []Socket  `json:"output_sockets,omitempty"`
}
