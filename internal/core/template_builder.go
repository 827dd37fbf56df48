package core

import (
	"fmt"
	"strings"

	"si-components/internal/shared"
	"si-components/internal/types"
)

// SchemaTemplateBuilder derives a starting template from a schema's default
// variant: one attribute per domain prop, one $source placeholder per input
// socket.
type SchemaTemplateBuilder struct {
	GeneratedAt string
}

func NewSchemaTemplateBuilder(generatedAt string) SchemaTemplateBuilder {
	return SchemaTemplateBuilder{GeneratedAt: generatedAt}
}

func (b SchemaTemplateBuilder) Build(schema types.SchemaSummary, variant types.SchemaVariant) types.SchemaTemplate {
	attrs := map[string]any{}
	needed := map[string]any{}
	analysis := types.RequiredAnalysis{
		Found:   []types.RequiredAttribute{},
		Missing: []types.RequiredAttribute{},
	}

	for _, prop := range variant.DomainProps {
		path := PropPath(prop)
		value, hasDefault := prop.Default, prop.Default != nil
		if !hasDefault {
			value = placeholderForKind(prop.Kind)
		}
		attrs[path] = value
		if !prop.Required {
			continue
		}
		needed[path] = value
		reason := prop.Description
		if reason == "" {
			reason = "required by schema definition"
		}
		if hasDefault {
			analysis.Found = append(analysis.Found, types.RequiredAttribute{Path: path, Reason: reason, Value: value})
		} else {
			analysis.Missing = append(analysis.Missing, types.RequiredAttribute{Path: path, Reason: reason})
		}
	}

	for _, socket := range variant.InputSockets {
		path, ref := InputSocketReference(socket)
		attrs[path] = ref
		needed[path] = ref
	}

	name := TemplateComponentName(schema.Name)
	if _, ok := attrs[types.PrefixDomain+"Name"]; !ok {
		attrs[types.PrefixDomain+"Name"] = name
	}

	return types.SchemaTemplate{
		Metadata: types.SchemaTemplateMetadata{
			SchemaName:               schema.Name,
			SchemaID:                 schema.ID,
			VariantID:                variant.VariantID,
			GeneratedFrom:            "System Initiative API",
			GeneratedAt:              b.GeneratedAt,
			UIFormat:                 "new",
			SchemaInstalled:          schema.Installed,
			InputSubscriptionsCount:  len(variant.InputSockets),
			OutputSubscriptionsCount: len(variant.OutputSockets),
			RequiredAnalysis:         analysis,
		},
		UsageExample: types.UsageExample{
			Description: "Complete ready-to-use example with all available attributes",
			CreateComponentRequest: types.CreateComponentRequest{
				Name:       "demo-component",
				SchemaName: schema.Name,
				Attributes: attrs,
			},
		},
		NeededToDeploy: types.UsageExample{
			Description: "Only the required attributes and subscriptions",
			CreateComponentRequest: types.CreateComponentRequest{
				Name:       name,
				SchemaName: schema.Name,
				Attributes: needed,
			},
		},
		Templates: []types.ComponentConfig{{
			Name:       name,
			SchemaName: schema.Name,
			Attributes: attrs,
		}},
	}
}

// PropPath maps a prop to its path-addressed attribute key.
func PropPath(prop types.PropDef) string {
	switch {
	case strings.HasPrefix(prop.Path, types.PrefixRoot):
		return rootToDomain(prop.Path)
	case strings.HasPrefix(prop.Path, "/"):
		return prop.Path
	default:
		return types.PrefixDomain + prop.Name
	}
}

// InputSocketReference returns the attribute path an input socket feeds and
// an example $source marker for it.
func InputSocketReference(socket types.Socket) (string, map[string]any) {
	kind := strings.ToLower(strings.TrimSpace(socket.Kind))
	if kind == "" {
		kind = "domain"
	}
	path := types.PrefixDomain + "extra/" + socket.Name
	if kind == "secrets" {
		path = types.PrefixSecrets + socket.Name
	}
	component := "my-" + strings.ReplaceAll(strings.ToLower(socket.Name), " ", "-")
	source := fmt.Sprintf("/%s/%s", kind, strings.ToLower(socket.Name))
	return path, types.NewReference(component, source)
}

func TemplateComponentName(schemaName string) string {
	return "my-" + shared.Slug(schemaName)
}

func SchemaTemplateFilename(schemaName string) string {
	return shared.SafeFilename(schemaName) + "_template.json.example"
}

func placeholderForKind(kind string) any {
	switch strings.ToLower(kind) {
	case "integer", "number", "float":
		return 0
	case "boolean":
		return false
	case "array":
		return []any{}
	case "object", "map":
		return map[string]any{}
	default:
		return ""
	}
}
