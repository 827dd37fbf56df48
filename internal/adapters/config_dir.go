package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"si-components/internal/ports"
	"si-components/internal/types"
)

// ConfigDirAdapter loads component configuration records from a directory
// of JSON (and YAML) files. Files are visited in directory listing order.
type ConfigDirAdapter struct{}

func NewConfigDirAdapter() ConfigDirAdapter {
	return ConfigDirAdapter{}
}

func (a ConfigDirAdapter) LoadDir(dir string) ([]types.RawRecord, []types.Problem, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config directory is empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("config directory not readable: " + dir).
			WithCause(err)
	}

	var records []types.RawRecord
	var problems []types.Problem
	for _, entry := range entries {
		if entry.IsDir() || !isConfigFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		values, err := decodeConfigFile(path)
		if err != nil {
			log.Warn().Str("file", path).Err(err).Msg("skipping unparseable config file")
			problems = append(problems, types.Problem{
				Kind:    types.ProblemParse,
				Message: err.Error(),
				Subject: path,
			})
			continue
		}
		for i, value := range values {
			records = append(records, types.RawRecord{Source: path, Index: i, Value: value})
		}
	}
	log.Debug().Str("dir", dir).Int("records", len(records)).Int("problems", len(problems)).Msg("config directory loaded")
	return records, problems, nil
}

func isConfigFile(name string) bool {
	if strings.HasPrefix(name, "extraction_summary_") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// decodeConfigFile returns one value per record: a top-level array yields
// its elements, anything else is a single record.
func decodeConfigFile(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var value any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		value, err = decodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	}
	if list, ok := value.([]any); ok {
		return list, nil
	}
	return []any{value}, nil
}

// decodeJSON keeps numbers as json.Number so large ids survive untouched
// and rejects trailing content after the first value.
func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected content after top-level value")
	}
	return value, nil
}

var _ ports.ConfigSourcePort = ConfigDirAdapter{}
