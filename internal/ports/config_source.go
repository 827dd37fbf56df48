package ports

import "si-components/internal/types"

// ConfigSourcePort reads raw configuration records. A missing directory is
// an error; undecodable files are returned as parse problems.
type ConfigSourcePort interface {
	LoadDir(dir string) ([]types.RawRecord, []types.Problem, error)
}
