package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"si-components/internal/types"
)

func TestNormalizerLegacyVPCScenario(t *testing.T) {
	raw := decodeRecord(t, `{"name":"vpc1","schema_name":"AWS::EC2::VPC","domain":{"CidrBlock":"10.0.0.0/16"}}`)
	cfg, violations := NewConfigValidator().Validate(raw)
	require.Empty(t, violations)

	got := NewNormalizer().Normalize(cfg)

	want := map[string]any{"/domain/CidrBlock": "10.0.0.0/16"}
	if diff := cmp.Diff(want, got.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	require.Nil(t, got.Domain)
	require.Nil(t, got.Secrets)
}

func TestNormalizerFoldsLegacyKeys(t *testing.T) {
	cfg := types.ComponentConfig{
		Name:       "web",
		SchemaName: "AWS::EC2::Instance",
		Domain:     map[string]any{"InstanceType": "t3.micro"},
		Secrets:    map[string]any{"Token": "abc"},
		Attributes: map[string]any{
			"ImageId":        "ami-1",
			"AWS Credential": types.NewReference("creds", "/secrets/AWS Credential"),
		},
	}

	got := NewNormalizer().Normalize(cfg)

	want := map[string]any{
		"/domain/InstanceType":    "t3.micro",
		"/secrets/Token":          "abc",
		"/domain/ImageId":         "ami-1",
		"/secrets/AWS Credential": types.NewReference("creds", "/secrets/AWS Credential"),
	}
	if diff := cmp.Diff(want, got.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizerCustomSecretKeys(t *testing.T) {
	cfg := types.ComponentConfig{Attributes: map[string]any{"Password": "x", "AWS Credential": "y"}}

	got := NewNormalizer("Password").Normalize(cfg)

	want := map[string]any{"/secrets/Password": "x", "/domain/AWS Credential": "y"}
	if diff := cmp.Diff(want, got.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizerIdempotent(t *testing.T) {
	normalizer := NewNormalizer()
	records := []types.ComponentConfig{
		{Name: "a", SchemaName: "Region", Domain: map[string]any{"region": "us-east-1"}},
		{Name: "b", SchemaName: "Region", Attributes: map[string]any{"region": "eu-west-1", "AWS Credential": "c"}},
		{Name: "c", SchemaName: "Region", Secrets: map[string]any{"k": []any{"x", map[string]any{"y": 1}}}},
		{Name: "d", SchemaName: "Region"},
	}
	for _, record := range records {
		t.Run(record.Name, func(t *testing.T) {
			once := normalizer.Normalize(record)
			twice := normalizer.Normalize(once)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Fatalf("normalize is not idempotent (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestNormalizerCanonicalRecordUnchanged(t *testing.T) {
	canonical := types.ComponentConfig{
		Name:       "subnet1",
		SchemaName: "AWS::EC2::Subnet",
		Attributes: map[string]any{
			"/domain/CidrBlock":     "10.0.1.0/24",
			"/domain/VpcId":         types.NewReference("vpc1", "/resource_value/VpcId"),
			"/resource_value/Extra": "kept",
		},
		Subscriptions: map[string]any{"/domain/Region": map[string]any{"component": "region"}},
	}

	got := NewNormalizer().Normalize(canonical)

	if diff := cmp.Diff(canonical, got); diff != "" {
		t.Fatalf("canonical record changed (-want +got):\n%s", diff)
	}
}

func TestBuildCreateRequestAlwaysHasAttributes(t *testing.T) {
	req := BuildCreateRequest(types.ComponentConfig{Name: "r", SchemaName: "Region", ViewName: "main"})
	require.NotNil(t, req.Attributes)
	require.Empty(t, req.Attributes)
	require.Equal(t, "main", req.ViewName)
}
