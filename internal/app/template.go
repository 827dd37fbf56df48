package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/core"
	"si-components/internal/ports"
	"si-components/internal/types"
)

// SchemaTemplate builds the template for one schema from its default
// variant and writes it as a .json.example file.
func (s Service) SchemaTemplate(ctx context.Context, req TemplateRequest) (TemplateResult, error) {
	session, err := s.session(req.Connection)
	if err != nil {
		return TemplateResult{}, err
	}
	changeSetID, err := resolveChangeSet(ctx, session, req.ChangeSetID)
	if err != nil {
		return TemplateResult{}, err
	}
	template, err := s.buildTemplate(ctx, session, changeSetID, req.SchemaName)
	if err != nil {
		return TemplateResult{}, err
	}
	path, err := s.Artifacts.WriteJSON(outputDirOrDefault(req.OutputDir), core.SchemaTemplateFilename(template.Metadata.SchemaName), template)
	if err != nil {
		return TemplateResult{}, err
	}
	return TemplateResult{Template: template, Path: path}, nil
}

func (s Service) buildTemplate(ctx context.Context, session ports.SessionPort, changeSetID string, schemaName string) (types.SchemaTemplate, error) {
	schemaName = strings.TrimSpace(schemaName)
	if schemaName == "" {
		return types.SchemaTemplate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema name is required")
	}
	schema, err := session.FindSchema(ctx, changeSetID, schemaName)
	if err != nil {
		return types.SchemaTemplate{}, err
	}
	variant, err := session.GetDefaultVariant(ctx, changeSetID, schema.ID)
	if err != nil {
		return types.SchemaTemplate{}, err
	}
	log.Debug().
		Str("schema", schema.Name).
		Str("variant", variant.VariantID).
		Int("props", len(variant.DomainProps)).
		Int("input_sockets", len(variant.InputSockets)).
		Msg("schema variant loaded")
	builder := core.NewSchemaTemplateBuilder(s.now().UTC().Format(time.RFC3339))
	return builder.Build(schema, variant), nil
}
