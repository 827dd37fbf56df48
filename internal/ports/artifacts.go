package ports

import "si-components/internal/types"

// ArtifactPort writes generated JSON artifacts and reads back extracted
// component files.
type ArtifactPort interface {
	WriteJSON(dir string, filename string, value any) (string, error)
	ReadExtracted(dir string) ([]types.ExtractionRecord, []types.Problem, error)
}
