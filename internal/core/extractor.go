package core

import (
	"fmt"
	"strings"
	"time"

	"si-components/internal/shared"
	"si-components/internal/types"
)

const ExtractorVersion = "1.0.0"

// Attribute paths carrying runtime or generated state; they do not belong in
// a template.
var skippedPrefixes = []string{
	types.PrefixSI,
	types.PrefixQualification,
	types.PrefixResource,
	types.PrefixResourceValue,
	types.PrefixCode,
}

// secretPlaceholderMin is the length above which a secret value is treated
// as a live credential and replaced with a placeholder.
const secretPlaceholderMin = 20

// ComponentTransformer turns live components into reusable templates.
type ComponentTransformer struct {
	Now func() time.Time
}

func (t ComponentTransformer) Transform(changeSetID string, schemaName string, detail types.ComponentDetail) types.ExtractionRecord {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return types.ExtractionRecord{
		Metadata: types.ExtractionMetadata{
			ExtractedFrom:         "System Initiative Changeset",
			ChangeSetID:           changeSetID,
			ExtractedAt:           now().UTC().Format(time.RFC3339),
			ExtractorVersion:      ExtractorVersion,
			ComponentID:           detail.ID,
			OriginalComponentName: detail.Name,
			SchemaName:            schemaName,
			Note:                  "Extracted from a live change set; review values before reuse",
		},
		Component: types.ExtractedComponent{
			Description:         "Component extracted from changeset and transformed to template format",
			OriginalComponentID: detail.ID,
			SchemaName:          schemaName,
			CreateComponentRequest: types.CreateComponentRequest{
				Name:       detail.Name,
				SchemaName: schemaName,
				Attributes: TemplateAttributes(detail),
			},
		},
		ReferenceExamples: ReferenceExamples(detail, schemaName),
	}
}

// TemplateAttributes keeps the user-settable attributes of a live component
// in path-addressed form.
func TemplateAttributes(detail types.ComponentDetail) map[string]any {
	attrs := make(map[string]any, len(detail.Attributes)+1)
	for path, value := range detail.Attributes {
		if hasAnyPrefix(path, skippedPrefixes) {
			continue
		}
		switch {
		case strings.HasPrefix(path, types.PrefixRoot):
			attrs[rootToDomain(path)] = value
		case strings.HasPrefix(path, types.PrefixSecrets):
			attrs[path] = secretTemplateValue(path, value)
		case !strings.HasPrefix(path, "/"):
			attrs[types.PrefixDomain+path] = value
		default:
			attrs[path] = value
		}
	}
	if _, ok := attrs[types.PrefixDomain+"Name"]; !ok {
		attrs[types.PrefixDomain+"Name"] = detail.Name
	}
	return attrs
}

func secretTemplateValue(path string, value any) any {
	text, ok := value.(string)
	if !ok || len(text) <= secretPlaceholderMin {
		return value
	}
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	return "<" + strings.ReplaceAll(strings.ToLower(last), " ", "_") + ">"
}

type schemaReference struct {
	key         string
	description string
	target      string
	source      string
	list        bool
}

var schemaReferences = map[string]schemaReference{
	"AWS::EC2::VPC": {
		key:         "vpc_id_reference",
		description: "Reference VPC ID for subnet creation",
		target:      "/domain/VpcId",
		source:      "/resource_value/VpcId",
	},
	"AWS::EC2::Subnet": {
		key:         "subnet_id_reference",
		description: "Reference Subnet ID for EC2 instances or other resources",
		target:      "/domain/SubnetId",
		source:      "/resource_value/SubnetId",
	},
	"AWS Credential": {
		key:         "aws_credential_reference",
		description: "Reference AWS credentials for any AWS resource",
		target:      "/secrets/AWS Credential",
		source:      "/secrets/AWS Credential",
	},
	"Region": {
		key:         "region_reference",
		description: "Reference region for AWS resources",
		target:      "/domain/extra/Region",
		source:      "/domain/region",
	},
	"AWS::EC2::SecurityGroup": {
		key:         "security_group_reference",
		description: "Reference Security Group for EC2 instances",
		target:      "/domain/SecurityGroupIds",
		source:      "/resource_value/GroupId",
		list:        true,
	},
}

// ReferenceExamples describes how other templates can point at detail's
// outputs. It is guidance only.
func ReferenceExamples(detail types.ComponentDetail, schemaName string) map[string]any {
	examples := map[string]any{
		"description":    fmt.Sprintf("Examples of how to reference this %s component in other component templates", schemaName),
		"component_name": detail.Name,
		"schema_name":    schemaName,
	}

	if outputs := detail.OutputSockets(); len(outputs) > 0 {
		available := make([]any, 0, len(outputs))
		usage := map[string]any{}
		for _, socket := range outputs {
			path := OutputSocketPath(socket.Name)
			available = append(available, map[string]any{
				"socket_name": socket.Name,
				"path":        path,
				"description": fmt.Sprintf("Reference to %s from %s", socket.Name, detail.Name),
			})
			key := "reference_" + strings.NewReplacer(" ", "_", "::", "_").Replace(strings.ToLower(socket.Name))
			usage[key] = map[string]any{path: types.NewReference(detail.Name, path)}
		}
		examples["available_outputs"] = available
		examples["usage_examples"] = usage
	}

	ref, ok := schemaReferences[schemaName]
	if !ok {
		examples["generic_reference"] = map[string]any{
			"description": fmt.Sprintf("Generic reference pattern for %s", schemaName),
			"note":        "Check component sockets and resource values for specific reference paths",
			"example": map[string]any{
				"/domain/SomeAttribute": types.NewReference(detail.Name, "/domain/attribute_name"),
			},
		}
		return examples
	}
	var value any = types.NewReference(detail.Name, ref.source)
	if ref.list {
		value = []any{value}
	}
	examples["common_references"] = map[string]any{
		ref.key: map[string]any{
			"description": ref.description,
			"example":     map[string]any{ref.target: value},
		},
	}
	return examples
}

// OutputSocketPath is where a socket's value lives on the providing
// component.
func OutputSocketPath(socketName string) string {
	if socketName == "AWS Credential" {
		return types.PrefixSecrets + socketName
	}
	return types.PrefixDomain + socketName
}

// ExtractionFilename names the file written for one extracted component.
func ExtractionFilename(componentName string, componentID string) string {
	return fmt.Sprintf("%s_%s.json", shared.SafeFilename(componentName), shared.ShortID(componentID))
}

func ExtractionSummaryFilename(changeSetID string) string {
	return fmt.Sprintf("extraction_summary_%s.json", shared.ShortID(changeSetID))
}

// rootToDomain rewrites "/root/domain/X" and "/root/X" to "/domain/X";
// "/root/secrets/X" becomes "/secrets/X".
func rootToDomain(path string) string {
	rest := "/" + strings.TrimPrefix(path, types.PrefixRoot)
	if strings.HasPrefix(rest, types.PrefixDomain) || strings.HasPrefix(rest, types.PrefixSecrets) {
		return rest
	}
	return types.PrefixDomain + strings.TrimPrefix(rest, "/")
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
