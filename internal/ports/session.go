package ports

import (
	"context"

	"si-components/internal/types"
)

// SchemaLookupPort resolves a schema display name to its id. Unknown names
// fail with errbuilder.CodeNotFound.
type SchemaLookupPort interface {
	LookupSchemaID(ctx context.Context, changeSetID string, schemaName string) (string, error)
}

// ComponentCreatorPort submits one create-component request.
type ComponentCreatorPort interface {
	CreateComponent(ctx context.Context, changeSetID string, req types.CreateComponentRequest) (types.CreatedComponent, error)
}

// SessionPort is the authenticated SI workspace API.
type SessionPort interface {
	SchemaLookupPort
	ComponentCreatorPort
	Ping(ctx context.Context) error
	ListChangeSets(ctx context.Context) ([]types.ChangeSet, error)
	CreateChangeSet(ctx context.Context, name string, baseChangeSetID string) (types.ChangeSet, error)
	ListComponents(ctx context.Context, changeSetID string) ([]types.ComponentSummary, error)
	GetComponent(ctx context.Context, changeSetID string, componentID string) (types.ComponentDetail, error)
	ListSchemas(ctx context.Context, changeSetID string) ([]types.SchemaSummary, error)
	FindSchema(ctx context.Context, changeSetID string, schemaName string) (types.SchemaSummary, error)
	GetDefaultVariant(ctx context.Context, changeSetID string, schemaID string) (types.SchemaVariant, error)
}

// SchemaResolverPort is the memoizing layer in front of SchemaLookupPort.
type SchemaResolverPort interface {
	Resolve(ctx context.Context, changeSetID string, schemaName string) (string, error)
}
