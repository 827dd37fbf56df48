package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"si-components/internal/core"
	"si-components/internal/types"
)

func (s Service) Ping(ctx context.Context, conn Connection) error {
	session, err := s.session(conn)
	if err != nil {
		return err
	}
	if err := session.Ping(ctx); err != nil {
		return err
	}
	log.Info().Str("workspace", conn.WorkspaceID).Msg("si api reachable")
	return nil
}

func (s Service) ListChangeSets(ctx context.Context, conn Connection) ([]types.ChangeSet, error) {
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	return session.ListChangeSets(ctx)
}

func (s Service) CreateChangeSet(ctx context.Context, req ChangeSetRequest) (types.ChangeSet, error) {
	session, err := s.session(req.Connection)
	if err != nil {
		return types.ChangeSet{}, err
	}
	cs, err := session.CreateChangeSet(ctx, req.Name, req.BaseID)
	if err != nil {
		return types.ChangeSet{}, err
	}
	log.Info().Str("change_set", cs.ID).Str("name", cs.Name).Msg("change set created")
	return cs, nil
}

// ListComponents returns the change set's components whose name matches
// req.Match, each with its schema name resolved.
func (s Service) ListComponents(ctx context.Context, req ListRequest) ([]types.ComponentSummary, error) {
	session, err := s.session(req.Connection)
	if err != nil {
		return nil, err
	}
	match, err := core.NameMatcher(req.Match)
	if err != nil {
		return nil, err
	}
	changeSetID, err := resolveChangeSet(ctx, session, req.ChangeSetID)
	if err != nil {
		return nil, err
	}
	components, err := session.ListComponents(ctx, changeSetID)
	if err != nil {
		return nil, err
	}
	var out []types.ComponentSummary
	for _, component := range components {
		if match(component.Name) {
			out = append(out, component)
		}
	}
	fillSchemaNames(ctx, session, changeSetID, out)
	return out, nil
}

// ListSchemas matches req.Match against schema names and display names.
func (s Service) ListSchemas(ctx context.Context, req ListRequest) ([]types.SchemaSummary, error) {
	session, err := s.session(req.Connection)
	if err != nil {
		return nil, err
	}
	match, err := core.NameMatcher(req.Match)
	if err != nil {
		return nil, err
	}
	changeSetID, err := resolveChangeSet(ctx, session, req.ChangeSetID)
	if err != nil {
		return nil, err
	}
	schemas, err := session.ListSchemas(ctx, changeSetID)
	if err != nil {
		return nil, err
	}
	var out []types.SchemaSummary
	for _, schema := range schemas {
		if match(schema.Name) || (schema.DisplayName != "" && match(schema.DisplayName)) {
			out = append(out, schema)
		}
	}
	return out, nil
}
