package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/ports"
	"si-components/internal/types"
)

// ArtifactFileAdapter writes indented JSON artifacts (extractions, templates,
// generated configs) and reads extraction files back.
type ArtifactFileAdapter struct{}

func NewArtifactFileAdapter() ArtifactFileAdapter {
	return ArtifactFileAdapter{}
}

func (a ArtifactFileAdapter) WriteJSON(dir string, filename string, value any) (string, error) {
	path, err := a.ensurePath(dir, filename)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode " + filename).
			WithCause(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return path, nil
}

// ReadExtracted loads every extraction file in dir. Summary files are
// skipped; files that are not extraction records come back as problems.
func (a ArtifactFileAdapter) ReadExtracted(dir string) ([]types.ExtractionRecord, []types.Problem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("extraction directory not readable: " + dir).
			WithCause(err)
	}
	var records []types.ExtractionRecord
	var problems []types.Problem
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "extraction_summary_") {
			continue
		}
		path := filepath.Join(dir, name)
		record, err := readExtraction(path)
		if err != nil {
			log.Debug().Str("file", path).Err(err).Msg("skipping non-extraction file")
			problems = append(problems, types.Problem{Kind: types.ProblemParse, Message: err.Error(), Subject: path})
			continue
		}
		records = append(records, record)
	}
	return records, problems, nil
}

func readExtraction(path string) (types.ExtractionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ExtractionRecord{}, err
	}
	var record types.ExtractionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.ExtractionRecord{}, err
	}
	if record.Component.SchemaName == "" || record.Metadata.ComponentID == "" {
		return types.ExtractionRecord{}, errors.New("not an extraction record")
	}
	return record, nil
}

func (a ArtifactFileAdapter) ensurePath(dir string, filename string) (string, error) {
	if dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if filename == "" || filepath.Base(filename) != filename {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid output filename: " + filename)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(dir, filename), nil
}

var _ ports.ArtifactPort = ArtifactFileAdapter{}
