package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/core"
	"si-components/internal/types"
)

const defaultExtractedDir = "extracted_components"
const defaultTemplatesDir = "templates"

// Generate builds a ready-to-create config for a new component of
// req.SchemaName, wiring in references to previously extracted components.
func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	componentName := strings.TrimSpace(req.ComponentName)
	if componentName == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("component name is required")
	}
	session, err := s.session(req.Connection)
	if err != nil {
		return GenerateResult{}, err
	}
	changeSetID, err := resolveChangeSet(ctx, session, req.ChangeSetID)
	if err != nil {
		return GenerateResult{}, err
	}
	template, err := s.buildTemplate(ctx, session, changeSetID, req.SchemaName)
	if err != nil {
		return GenerateResult{}, err
	}

	refs := core.NewReferenceCatalog(s.extractedRecords(req.ExtractedDir))
	base := template.NeededToDeploy.CreateComponentRequest.Attributes
	generated := core.GenerateConfig(template.Metadata.SchemaName, componentName, base, refs)

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = defaultTemplatesDir
	}
	path, err := s.Artifacts.WriteJSON(outputDir, core.GeneratedFilename(componentName), generated.Config)
	if err != nil {
		return GenerateResult{}, err
	}
	log.Info().
		Str("component", componentName).
		Str("schema", generated.Config.SchemaName).
		Int("references", generated.ReferencesUsed).
		Str("file", path).
		Msg("component config generated")
	return GenerateResult{
		Config:         generated.Config,
		ReferencesUsed: generated.ReferencesUsed,
		Available:      refs.Counts(),
		Path:           path,
	}, nil
}

// extractedRecords returns what can be read from dir. Without extractions
// the generator falls back to placeholder references.
func (s Service) extractedRecords(dir string) []types.ExtractionRecord {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultExtractedDir
	}
	records, problems, err := s.Artifacts.ReadExtracted(dir)
	if err != nil {
		log.Warn().Str("dir", dir).Err(err).Msg("no extracted components available")
		return nil
	}
	for _, problem := range problems {
		log.Debug().Str("file", problem.Subject).Str("reason", problem.Message).Msg("ignored extracted file")
	}
	return records
}
