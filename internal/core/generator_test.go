package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"si-components/internal/types"
)

func extracted(name string, schema string) types.ExtractionRecord {
	return types.ExtractionRecord{
		Component: types.ExtractedComponent{
			SchemaName: schema,
			CreateComponentRequest: types.CreateComponentRequest{
				Name:       name,
				SchemaName: schema,
			},
		},
	}
}

func TestGenerateConfigInjectsReferences(t *testing.T) {
	refs := NewReferenceCatalog([]types.ExtractionRecord{
		extracted("prod-creds", "AWS Credential"),
		extracted("other-creds", "AWS Credential"),
		extracted("us-east-1", "Region"),
		extracted("main-vpc", "AWS::EC2::VPC"),
		extracted("subnet-a", "AWS::EC2::Subnet"),
		extracted("web-sg", "AWS::EC2::SecurityGroup"),
		extracted("bucket", "AWS::S3::Bucket"),
	})
	base := map[string]any{
		"/secrets/AWS Credential":  types.NewReference("my-aws-credential", "/secrets/aws credential"),
		"/domain/extra/Region":     types.NewReference("my-region", "/domain/region"),
		"/domain/SubnetId":         "",
		"/domain/SecurityGroupIds": []any{},
		"/domain/InstanceType":     "t3.micro",
	}

	got := GenerateConfig("AWS::EC2::Instance", "web-1", base, refs)

	want := map[string]any{
		"/secrets/AWS Credential":  types.NewReference("prod-creds", "/secrets/AWS Credential"),
		"/domain/extra/Region":     types.NewReference("us-east-1", "/domain/region"),
		"/domain/SubnetId":         types.NewReference("subnet-a", "/resource_value/SubnetId"),
		"/domain/SecurityGroupIds": []any{types.NewReference("web-sg", "/resource_value/GroupId")},
		"/domain/InstanceType":     "t3.micro",
		"/domain/Name":             "web-1",
	}
	if diff := cmp.Diff(want, got.Config.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 3, got.ReferencesUsed)
	require.Equal(t, "web-1", got.Config.Name)
	require.Equal(t, "AWS::EC2::Instance", got.Config.SchemaName)
	require.Equal(t, "", base["/domain/SubnetId"], "base template must not be mutated")
}

func TestGenerateConfigAddsAWSPlaceholders(t *testing.T) {
	got := GenerateConfig("AWS::S3::Bucket", "bucket", map[string]any{}, NewReferenceCatalog(nil))

	require.Equal(t, types.NewReference("my-aws-credential", "/secrets/AWS Credential"), got.Config.Attributes["/secrets/AWS Credential"])
	require.Equal(t, types.NewReference("my-region", "/domain/region"), got.Config.Attributes["/domain/extra/Region"])
	require.Equal(t, 2, got.ReferencesUsed)
}

func TestGenerateConfigNonAWSUntouched(t *testing.T) {
	got := GenerateConfig("Region", "us-west-2", map[string]any{"/domain/region": "us-west-2"}, NewReferenceCatalog(nil))

	want := map[string]any{"/domain/region": "us-west-2", "/domain/Name": "us-west-2"}
	if diff := cmp.Diff(want, got.Config.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	require.Zero(t, got.ReferencesUsed)
}

func TestReferenceCatalogCounts(t *testing.T) {
	refs := NewReferenceCatalog([]types.ExtractionRecord{
		extracted("a", "AWS Credential"),
		extracted("b", "Region"),
		extracted("c", "Custom"),
	})
	counts := refs.Counts()
	require.Equal(t, 1, counts[RefCredential])
	require.Equal(t, 1, counts[RefRegion])
	require.Equal(t, 1, counts[RefOther])
	require.Zero(t, counts[RefVPC])
}

func TestGeneratedFilename(t *testing.T) {
	require.Equal(t, "my_web_server.json", GeneratedFilename("My Web-Server"))
}
