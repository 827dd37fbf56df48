package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"si-components/internal/core"
)

// Export copies one config, looked up by name, to the output directory.
func (s Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config name is required")
	}
	configs, _, _, err := s.loadConfigs(req.Dir)
	if err != nil {
		return ExportResult{}, err
	}
	cfg, ok := core.NewConfigCatalog(configs).Find(name)
	if !ok {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no config named " + name)
	}
	path, err := s.Artifacts.WriteJSON(outputDirOrDefault(req.OutputDir), core.ExportFilename(cfg.Name), cfg)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Config: cfg, Path: path}, nil
}

// InitTemplate writes a starter config for schemaName.
func (s Service) InitTemplate(ctx context.Context, req InitTemplateRequest) (ExportResult, error) {
	schemaName := strings.TrimSpace(req.SchemaName)
	if schemaName == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema name is required")
	}
	cfg := core.StarterConfig(schemaName)
	path, err := s.Artifacts.WriteJSON(outputDirOrDefault(req.OutputDir), core.ExportFilename(cfg.Name), cfg)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Config: cfg, Path: path}, nil
}

func outputDirOrDefault(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "."
	}
	return dir
}
