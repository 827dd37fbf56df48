package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"si-components/internal/ports"
	"si-components/internal/types"
	"si-components/tests/testutil"
)

type fakeSession struct {
	changeSets []types.ChangeSet
	schemas    []types.SchemaSummary
	variants   map[string]types.SchemaVariant
	components []types.ComponentSummary
	details    map[string]types.ComponentDetail

	mu      sync.Mutex
	created []types.CreateComponentRequest
	seenCS  []string
}

func (f *fakeSession) record(changeSetID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seenCS = append(f.seenCS, changeSetID)
}

func (f *fakeSession) Ping(context.Context) error { return nil }

func (f *fakeSession) ListChangeSets(context.Context) ([]types.ChangeSet, error) {
	return f.changeSets, nil
}

func (f *fakeSession) CreateChangeSet(_ context.Context, name string, baseChangeSetID string) (types.ChangeSet, error) {
	f.record(baseChangeSetID)
	return types.ChangeSet{ID: "cs-" + name, Name: name, Status: "Open"}, nil
}

func (f *fakeSession) ListComponents(_ context.Context, changeSetID string) ([]types.ComponentSummary, error) {
	f.record(changeSetID)
	return f.components, nil
}

func (f *fakeSession) GetComponent(_ context.Context, changeSetID string, componentID string) (types.ComponentDetail, error) {
	f.record(changeSetID)
	detail, ok := f.details[componentID]
	if !ok {
		return types.ComponentDetail{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("component not found: " + componentID)
	}
	return detail, nil
}

func (f *fakeSession) ListSchemas(_ context.Context, changeSetID string) ([]types.SchemaSummary, error) {
	f.record(changeSetID)
	return f.schemas, nil
}

func (f *fakeSession) FindSchema(_ context.Context, _ string, schemaName string) (types.SchemaSummary, error) {
	for _, schema := range f.schemas {
		if schema.Matches(schemaName) {
			return schema, nil
		}
	}
	return types.SchemaSummary{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("schema not found: " + schemaName)
}

func (f *fakeSession) LookupSchemaID(ctx context.Context, changeSetID string, schemaName string) (string, error) {
	schema, err := f.FindSchema(ctx, changeSetID, schemaName)
	return schema.ID, err
}

func (f *fakeSession) GetDefaultVariant(_ context.Context, _ string, schemaID string) (types.SchemaVariant, error) {
	variant, ok := f.variants[schemaID]
	if !ok {
		return types.SchemaVariant{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no default variant for " + schemaID)
	}
	return variant, nil
}

func (f *fakeSession) CreateComponent(_ context.Context, _ string, req types.CreateComponentRequest) (types.CreatedComponent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return types.CreatedComponent{ID: "id-" + req.Name, Name: req.Name}, nil
}

var _ ports.SessionPort = (*fakeSession)(nil)

func awsSession() *fakeSession {
	return &fakeSession{
		changeSets: []types.ChangeSet{
			{ID: "cs-feature", Name: "feature"},
			{ID: "cs-head", Name: "HEAD", IsHead: true},
		},
		schemas: []types.SchemaSummary{
			{ID: "s-region", Name: "Region", Installed: true},
			{ID: "s-vpc", Name: "AWS::EC2::VPC", Installed: true},
			{ID: "s-subnet", Name: "AWS::EC2::Subnet", Installed: true},
			{ID: "s-cred", Name: "AWS Credential", Installed: true},
		},
		variants: map[string]types.SchemaVariant{
			"s-subnet": {
				VariantID: "v-subnet",
				DomainProps: []types.PropDef{
					{Name: "CidrBlock", Path: "/domain/CidrBlock", Kind: "string", Required: true},
					{Name: "VpcId", Path: "/domain/VpcId", Kind: "string", Required: true},
					{Name: "MapPublicIpOnLaunch", Path: "/domain/MapPublicIpOnLaunch", Kind: "boolean"},
				},
			},
		},
	}
}

func testService(session ports.SessionPort) Service {
	service := NewService()
	service.NewSession = func(Connection) ports.SessionPort { return session }
	service.Clock = func() time.Time { return time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC) }
	return service
}

func testConnection() Connection {
	return Connection{Host: "http://si.invalid", WorkspaceID: "ws-1", Token: "token"}
}

func fixturesDir(t *testing.T) string {
	return testutil.FixturesDir(t)
}
