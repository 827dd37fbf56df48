package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"si-components/internal/types"
)

func TestTemplateAttributes(t *testing.T) {
	detail := types.ComponentDetail{
		ID:   "0123456789abcdef",
		Name: "prod creds",
		Attributes: map[string]any{
			"/si/name":                "prod creds",
			"/qualification/ok":       true,
			"/resource/payload":       "{}",
			"/resource_value/VpcId":   "vpc-1",
			"/code/cf":                "...",
			"/root/Region":            "us-east-1",
			"/secrets/AWS Credential": "a-very-long-encrypted-secret-value",
			"/secrets/Short":          "abc",
			"InstanceType":            "t3.micro",
			"/domain/Tags":            []any{"a"},
		},
	}

	got := TemplateAttributes(detail)

	want := map[string]any{
		"/domain/Region":          "us-east-1",
		"/secrets/AWS Credential": "<aws_credential>",
		"/secrets/Short":          "abc",
		"/domain/InstanceType":    "t3.micro",
		"/domain/Tags":            []any{"a"},
		"/domain/Name":            "prod creds",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("template attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateAttributesKeepsExistingName(t *testing.T) {
	got := TemplateAttributes(types.ComponentDetail{
		Name:       "component",
		Attributes: map[string]any{"/domain/Name": "custom"},
	})
	require.Equal(t, "custom", got["/domain/Name"])
}

func TestReferenceExamplesVPC(t *testing.T) {
	detail := types.ComponentDetail{
		Name: "main-vpc",
		Sockets: []types.Socket{
			{Name: "VPC Id", Direction: types.SocketOutput},
			{Name: "Region", Direction: types.SocketInput},
		},
	}

	got := ReferenceExamples(detail, "AWS::EC2::VPC")

	require.Equal(t, "main-vpc", got["component_name"])
	outputs, ok := got["available_outputs"].([]any)
	require.True(t, ok)
	require.Len(t, outputs, 1)
	usage := got["usage_examples"].(map[string]any)
	wantUsage := map[string]any{
		"reference_vpc_id": map[string]any{
			"/domain/VPC Id": types.NewReference("main-vpc", "/domain/VPC Id"),
		},
	}
	if diff := cmp.Diff(wantUsage, usage); diff != "" {
		t.Fatalf("usage examples mismatch (-want +got):\n%s", diff)
	}
	common := got["common_references"].(map[string]any)
	wantCommon := map[string]any{
		"vpc_id_reference": map[string]any{
			"description": "Reference VPC ID for subnet creation",
			"example": map[string]any{
				"/domain/VpcId": types.NewReference("main-vpc", "/resource_value/VpcId"),
			},
		},
	}
	if diff := cmp.Diff(wantCommon, common); diff != "" {
		t.Fatalf("common references mismatch (-want +got):\n%s", diff)
	}
}

func TestReferenceExamplesSecurityGroupUsesList(t *testing.T) {
	got := ReferenceExamples(types.ComponentDetail{Name: "sg"}, "AWS::EC2::SecurityGroup")
	common := got["common_references"].(map[string]any)
	example := common["security_group_reference"].(map[string]any)["example"].(map[string]any)
	require.Equal(t, []any{types.NewReference("sg", "/resource_value/GroupId")}, example["/domain/SecurityGroupIds"])
}

func TestReferenceExamplesGeneric(t *testing.T) {
	got := ReferenceExamples(types.ComponentDetail{Name: "bucket"}, "AWS::S3::Bucket")
	require.Contains(t, got, "generic_reference")
	require.NotContains(t, got, "common_references")
	require.NotContains(t, got, "available_outputs")
}

func TestComponentTransformerTransform(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	transformer := ComponentTransformer{Now: func() time.Time { return fixed }}
	detail := types.ComponentDetail{ID: "comp-123456789", Name: "us-east", Attributes: map[string]any{"/domain/region": "us-east-1"}}

	record := transformer.Transform("cs-abcdefghij", "Region", detail)

	require.Equal(t, "2026-03-01T12:00:00Z", record.Metadata.ExtractedAt)
	require.Equal(t, "cs-abcdefghij", record.Metadata.ChangeSetID)
	require.Equal(t, ExtractorVersion, record.Metadata.ExtractorVersion)
	require.Equal(t, "Region", record.Component.CreateComponentRequest.SchemaName)
	require.Equal(t, "us-east", record.Component.CreateComponentRequest.Name)
	require.Equal(t, "us-east", record.Component.CreateComponentRequest.Attributes["/domain/Name"])
	require.Contains(t, record.ReferenceExamples, "common_references")
}

func TestExtractionFilenames(t *testing.T) {
	require.Equal(t, "prod_creds_01234567.json", ExtractionFilename("Prod Creds", "0123456789"))
	require.Equal(t, "extraction_summary_cs-abcde.json", ExtractionSummaryFilename("cs-abcdefghij"))
}

func TestContentDigestIgnoresKeyOrder(t *testing.T) {
	a, err := ContentDigest(map[string]any{"b": 1, "a": []any{"x"}})
	require.NoError(t, err)
	b, err := ContentDigest(map[string]any{"a": []any{"x"}, "b": 1})
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NoError(t, a.Validate())
	require.Equal(t, "sha256", a.Algorithm().String())
}
