package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/core"
	"si-components/internal/types"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	configs, problems, records, err := s.loadConfigs(req.Dir)
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{Records: records, Valid: configs, Problems: problems}, nil
}

// loadConfigs reads and validates every record in dir. Invalid records are
// excluded and reported as problems; only an unreadable directory fails.
func (s Service) loadConfigs(dir string) ([]types.ComponentConfig, []types.Problem, int, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil, 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config directory is required")
	}
	records, problems, err := s.Configs.LoadDir(dir)
	if err != nil {
		return nil, nil, 0, err
	}
	validator := core.NewConfigValidator()
	var configs []types.ComponentConfig
	for _, record := range records {
		cfg, violations := validator.Validate(record.Value)
		if len(violations) > 0 {
			log.Warn().Str("file", record.Source).Int("index", record.Index).Strs("violations", violations).Msg("invalid component config")
			problems = append(problems, types.Problem{
				Kind:    types.ProblemValidation,
				Message: "invalid component config",
				Subject: record.Subject(),
				Details: violations,
			})
			continue
		}
		cfg.Source = record.Source
		configs = append(configs, cfg)
	}
	log.Info().Str("dir", dir).Int("records", len(records)).Int("valid", len(configs)).Int("problems", len(problems)).Msg("configs loaded")
	return configs, problems, len(records), nil
}
