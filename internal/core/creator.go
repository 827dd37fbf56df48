package core

import (
	"context"
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"si-components/internal/ports"
	"si-components/internal/types"
)

// ComponentCreator submits a batch of normalized configs to one change set.
// A failing item never stops the batch.
type ComponentCreator struct {
	schemas ports.SchemaResolverPort
	session ports.ComponentCreatorPort
	workers int
}

func NewComponentCreator(schemas ports.SchemaResolverPort, session ports.ComponentCreatorPort, workers int) ComponentCreator {
	if workers < 1 {
		workers = 1
	}
	return ComponentCreator{schemas: schemas, session: session, workers: workers}
}

// CreateAll returns one outcome per config, in input order.
func (c ComponentCreator) CreateAll(ctx context.Context, changeSetID string, configs []types.ComponentConfig) types.BatchResult {
	result := types.BatchResult{Items: make([]types.ItemOutcome, len(configs))}
	duplicates := duplicateNames(configs)

	if c.workers == 1 {
		for i, cfg := range configs {
			result.Items[i] = c.createItem(ctx, changeSetID, cfg, duplicates[i])
		}
	} else {
		// Items never return an error to the group; failures are outcomes.
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(c.workers)
		for i, cfg := range configs {
			group.Go(func() error {
				result.Items[i] = c.createItem(groupCtx, changeSetID, cfg, duplicates[i])
				return nil
			})
		}
		_ = group.Wait()
	}

	result.Tally()
	log.Info().
		Str("change_set", changeSetID).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("component batch finished")
	return result
}

func (c ComponentCreator) createItem(ctx context.Context, changeSetID string, cfg types.ComponentConfig, duplicate bool) types.ItemOutcome {
	outcome := types.ItemOutcome{Name: cfg.Name}
	logger := log.With().Str("component", cfg.Name).Str("schema", cfg.SchemaName).Logger()

	if duplicate {
		return failOutcome(outcome, types.ProblemValidation, "duplicate component name in batch")
	}
	if err := ctx.Err(); err != nil {
		return failOutcome(outcome, types.ProblemTransport, err.Error())
	}

	schemaID, err := c.schemas.Resolve(ctx, changeSetID, cfg.SchemaName)
	if err != nil {
		logger.Warn().Err(err).Msg("schema lookup failed")
		return failOutcome(outcome, ProblemKindOf(err, types.ProblemTransport), err.Error())
	}
	outcome.SchemaID = schemaID

	created, err := c.session.CreateComponent(ctx, changeSetID, BuildCreateRequest(cfg))
	if err != nil {
		logger.Warn().Err(err).Msg("create component failed")
		return failOutcome(outcome, types.ProblemTransport, err.Error())
	}
	outcome.Status = types.OutcomeCreated
	outcome.ComponentID = created.ID
	logger.Info().Str("component_id", created.ID).Msg("component created")
	return outcome
}

func failOutcome(outcome types.ItemOutcome, kind types.ProblemKind, reason string) types.ItemOutcome {
	outcome.Status = types.OutcomeFailed
	outcome.Kind = kind
	outcome.Reason = &reason
	return outcome
}

// duplicateNames flags every occurrence of a name after its first.
func duplicateNames(configs []types.ComponentConfig) []bool {
	seen := make(map[string]struct{}, len(configs))
	flags := make([]bool, len(configs))
	for i, cfg := range configs {
		if _, ok := seen[cfg.Name]; ok {
			flags[i] = true
			continue
		}
		seen[cfg.Name] = struct{}{}
	}
	return flags
}

// ProblemKindOf maps an errbuilder code to a problem kind.
func ProblemKindOf(err error, fallback types.ProblemKind) types.ProblemKind {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeNotFound:
		return types.ProblemNotFound
	case errbuilder.CodeInvalidArgument:
		return types.ProblemValidation
	default:
		return fallback
	}
}

// ErrorMessage prefers the errbuilder message over the full error text.
func ErrorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
