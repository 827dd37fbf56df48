package app

import (
	"si-components/internal/adapters"
	"si-components/internal/core"
	"si-components/internal/types"
)

// Connection is the SI API access used by remote operations.
type Connection = adapters.SIClientConfig

type ValidateRequest struct {
	Dir string
}

type ValidateResult struct {
	Records  int
	Valid    []types.ComponentConfig
	Problems []types.Problem
}

type CreateRequest struct {
	Connection  Connection
	Dir         string
	ChangeSetID string
	Names       []string
	Match       string
	Workers     int
	SecretKeys  []string
	ReportPath  string
}

type CreateResult struct {
	Batch      types.BatchResult
	Problems   []types.Problem
	ReportPath string
	Cache      core.SchemaCacheStats
}

type NormalizeRequest struct {
	Dir        string
	OutputDir  string
	SecretKeys []string
}

type NormalizeResult struct {
	Files    []string
	Problems []types.Problem
}

type ExportRequest struct {
	Dir       string
	Name      string
	OutputDir string
}

type ExportResult struct {
	Config types.ComponentConfig
	Path   string
}

type InitTemplateRequest struct {
	SchemaName string
	OutputDir  string
}

type ChangeSetRequest struct {
	Connection Connection
	Name       string
	BaseID     string
}

type ListRequest struct {
	Connection  Connection
	ChangeSetID string
	Match       string
}

type ExtractRequest struct {
	Connection  Connection
	ChangeSetID string
	OutputDir   string
	Match       string
}

type ExtractResult struct {
	Summary     types.ExtractionSummary
	SummaryPath string
}

type TemplateRequest struct {
	Connection  Connection
	ChangeSetID string
	SchemaName  string
	OutputDir   string
}

type TemplateResult struct {
	Template types.SchemaTemplate
	Path     string
}

type GenerateRequest struct {
	Connection    Connection
	ChangeSetID   string
	SchemaName    string
	ComponentName string
	ExtractedDir  string
	OutputDir     string
}

type GenerateResult struct {
	Config         types.ComponentConfig
	ReferencesUsed int
	Available      map[core.ReferenceKind]int
	Path           string
}
