package app

import (
	"context"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/core"
	"si-components/internal/types"
)

// Create runs the whole pipeline: load, validate, select, normalize, then
// create every remaining config in the change set. Per-item failures are
// outcomes in the batch, not errors.
func (s Service) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	changeSetID := strings.TrimSpace(req.ChangeSetID)
	if changeSetID == "" {
		return CreateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("change set id is required")
	}
	session, err := s.session(req.Connection)
	if err != nil {
		return CreateResult{}, err
	}
	configs, problems, _, err := s.loadConfigs(req.Dir)
	if err != nil {
		return CreateResult{}, err
	}
	selected, missing, err := core.NewConfigCatalog(configs).Select(req.Names, req.Match)
	if err != nil {
		return CreateResult{}, err
	}
	for _, name := range missing {
		problems = append(problems, types.Problem{
			Kind:    types.ProblemNotFound,
			Message: "no config with this name",
			Subject: name,
		})
	}

	normalized := core.NewNormalizer(req.SecretKeys...).NormalizeAll(selected)
	for _, cfg := range normalized {
		assert.NotEmpty(ctx, cfg.Name, "normalized config must keep its name")
		assert.NotEmpty(ctx, cfg.SchemaName, "normalized config must keep its schema name")
	}

	cache := core.NewSchemaCache(session)
	creator := core.NewComponentCreator(cache, session, req.Workers)
	batch := creator.CreateAll(ctx, changeSetID, normalized)
	stats := cache.Stats()
	log.Debug().
		Int("entries", stats.Entries).
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int64("lookups", stats.Lookups).
		Msg("schema cache stats")

	result := CreateResult{Batch: batch, Problems: problems, Cache: stats}
	if reportPath := strings.TrimSpace(req.ReportPath); reportPath != "" {
		path, err := s.Artifacts.WriteJSON(filepath.Dir(reportPath), filepath.Base(reportPath), batch)
		if err != nil {
			return result, err
		}
		result.ReportPath = path
	}
	return result, nil
}
