package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"si-components/internal/ports"
	"si-components/internal/shared"
	"si-components/internal/types"
)

// schemaIndex maps schema ids to names. A failed listing only costs
// nicer names, so it is logged and an empty index returned.
func schemaIndex(ctx context.Context, session ports.SessionPort, changeSetID string) map[string]string {
	index := map[string]string{}
	schemas, err := session.ListSchemas(ctx, changeSetID)
	if err != nil {
		log.Warn().Err(err).Msg("schema listing failed, schema names will be placeholders")
		return index
	}
	for _, schema := range schemas {
		index[schema.ID] = schema.Name
	}
	return index
}

// fillSchemaNames sets SchemaName on every summary that carries only a
// schema id. Schemas are listed at most once per call.
func fillSchemaNames(ctx context.Context, session ports.SessionPort, changeSetID string, components []types.ComponentSummary) {
	var index map[string]string
	for i := range components {
		if components[i].SchemaName != "" || components[i].SchemaID == "" {
			continue
		}
		if index == nil {
			index = schemaIndex(ctx, session, changeSetID)
		}
		components[i].SchemaName = schemaNameFor(components[i], types.ComponentDetail{}, index)
	}
}

func schemaNameFor(component types.ComponentSummary, detail types.ComponentDetail, index map[string]string) string {
	if component.SchemaName != "" {
		return component.SchemaName
	}
	schemaID := detail.SchemaID
	if schemaID == "" {
		schemaID = component.SchemaID
	}
	if name, ok := index[schemaID]; ok {
		return name
	}
	return "Schema-" + shared.ShortID(schemaID)
}
