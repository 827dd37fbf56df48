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

// Extract writes one template file per component of the change set plus a
// summary. A component that cannot be fetched or written is recorded as a
// failed item and extraction moves on.
func (s Service) Extract(ctx context.Context, req ExtractRequest) (ExtractResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return ExtractResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	session, err := s.session(req.Connection)
	if err != nil {
		return ExtractResult{}, err
	}
	match, err := core.NameMatcher(req.Match)
	if err != nil {
		return ExtractResult{}, err
	}
	changeSetID, err := resolveChangeSet(ctx, session, req.ChangeSetID)
	if err != nil {
		return ExtractResult{}, err
	}
	components, err := session.ListComponents(ctx, changeSetID)
	if err != nil {
		return ExtractResult{}, err
	}
	schemaNames := schemaIndex(ctx, session, changeSetID)

	extractedAt := s.now().UTC()
	transformer := core.ComponentTransformer{Now: func() time.Time { return extractedAt }}
	summary := types.ExtractionSummary{
		ChangeSetID:     changeSetID,
		ExtractedAt:     extractedAt.Format(time.RFC3339),
		FilesCreated:    []string{},
		OutputDirectory: outputDir,
		Details:         []types.ExtractionItem{},
	}
	for _, component := range components {
		if !match(component.Name) {
			continue
		}
		item := s.extractOne(ctx, session, transformer, changeSetID, outputDir, component, schemaNames)
		summary.Details = append(summary.Details, item)
		if item.Success {
			summary.SuccessfulExtractions++
			summary.FilesCreated = append(summary.FilesCreated, item.Filename)
		} else {
			summary.FailedExtractions++
		}
	}
	summary.ComponentCount = len(summary.Details)
	summary.Success = summary.FailedExtractions == 0

	summaryPath, err := s.Artifacts.WriteJSON(outputDir, core.ExtractionSummaryFilename(changeSetID), summary)
	if err != nil {
		return ExtractResult{Summary: summary}, err
	}
	log.Info().
		Str("change_set", changeSetID).
		Int("extracted", summary.SuccessfulExtractions).
		Int("failed", summary.FailedExtractions).
		Msg("extraction finished")
	return ExtractResult{Summary: summary, SummaryPath: summaryPath}, nil
}

func (s Service) extractOne(ctx context.Context, session ports.SessionPort, transformer core.ComponentTransformer, changeSetID string, outputDir string, component types.ComponentSummary, schemaNames map[string]string) types.ExtractionItem {
	item := types.ExtractionItem{ComponentID: component.ID, ComponentName: component.Name}
	logger := log.With().Str("component", component.Name).Str("component_id", component.ID).Logger()

	detail, err := session.GetComponent(ctx, changeSetID, component.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("component fetch failed")
		item.Error = core.ErrorMessage(err)
		return item
	}
	if detail.Name == "" {
		detail.Name = component.Name
	}
	item.ComponentName = detail.Name
	item.SchemaName = schemaNameFor(component, detail, schemaNames)

	record := transformer.Transform(changeSetID, item.SchemaName, detail)
	sum, err := core.ContentDigest(record)
	if err != nil {
		item.Error = core.ErrorMessage(err)
		return item
	}
	record.Metadata.Digest = sum.String()

	path, err := s.Artifacts.WriteJSON(outputDir, core.ExtractionFilename(detail.Name, detail.ID), record)
	if err != nil {
		logger.Warn().Err(err).Msg("extraction write failed")
		item.Error = core.ErrorMessage(err)
		return item
	}
	logger.Debug().Str("file", path).Str("digest", record.Metadata.Digest).Msg("component extracted")
	item.Filename = path
	item.Success = true
	return item
}
