package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/core"
)

// Normalize rewrites every valid config in path-addressed form, one file per
// config.
func (s Service) Normalize(ctx context.Context, req NormalizeRequest) (NormalizeResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return NormalizeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	configs, problems, _, err := s.loadConfigs(req.Dir)
	if err != nil {
		return NormalizeResult{}, err
	}
	normalizer := core.NewNormalizer(req.SecretKeys...)
	result := NormalizeResult{Problems: problems}
	for _, cfg := range normalizer.NormalizeAll(configs) {
		path, err := s.Artifacts.WriteJSON(outputDir, core.ExportFilename(cfg.Name), cfg)
		if err != nil {
			return result, err
		}
		log.Debug().Str("component", cfg.Name).Str("file", path).Msg("normalized config written")
		result.Files = append(result.Files, path)
	}
	return result, nil
}
