package adapters

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"si-components/internal/ports"
	"si-components/internal/types"
)

const siPageLimit = 300
const siMaxPages = 20

func (a SIClientAdapter) Ping(ctx context.Context) error {
	_, err := a.do(ctx, modeHTTP, http.MethodGet, a.workspacePath("/change-sets"), nil, nil)
	return err
}

func (a SIClientAdapter) ListChangeSets(ctx context.Context) ([]types.ChangeSet, error) {
	return call(ctx, a, http.MethodGet, a.workspacePath("/change-sets"), nil, nil,
		"change set list", typedChangeSets, lenientChangeSets)
}

// CreateChangeSet opens a change set. baseChangeSetID is optional; the API
// forks from HEAD when it is empty.
func (a SIClientAdapter) CreateChangeSet(ctx context.Context, name string, baseChangeSetID string) (types.ChangeSet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.ChangeSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("change set name is required")
	}
	payload := map[string]string{"changeSetName": name}
	if base := strings.TrimSpace(baseChangeSetID); base != "" {
		payload["baseChangeSetId"] = base
	}
	return call(ctx, a, http.MethodPost, a.workspacePath("/change-sets"), nil, payload,
		"change set", typedChangeSet, lenientChangeSet)
}

// ListComponents pages through the change set's components. Entries that
// arrive as bare ids are expanded with GetComponent; an entry that cannot
// be expanded keeps a placeholder name.
func (a SIClientAdapter) ListComponents(ctx context.Context, changeSetID string) ([]types.ComponentSummary, error) {
	if err := requireChangeSet(changeSetID); err != nil {
		return nil, err
	}
	path := a.workspacePath("/change-sets/%s/components", changeSetID)
	var out []types.ComponentSummary
	cursor := ""
	for page := 0; page < siMaxPages; page++ {
		query := pageQuery(cursor)
		result, err := call(ctx, a, http.MethodGet, path, query, nil,
			"component list", typedComponentPage, lenientComponentPage)
		if err != nil {
			return nil, err
		}
		for _, item := range result.Items {
			if item.Name == "" {
				item = a.expandComponent(ctx, changeSetID, item)
			}
			out = append(out, item)
		}
		if result.Next == "" || result.Next == cursor {
			return out, nil
		}
		cursor = result.Next
	}
	log.Warn().Str("change_set", changeSetID).Int("pages", siMaxPages).Msg("component listing truncated")
	return out, nil
}

func (a SIClientAdapter) expandComponent(ctx context.Context, changeSetID string, item types.ComponentSummary) types.ComponentSummary {
	detail, err := a.GetComponent(ctx, changeSetID, item.ID)
	if err != nil {
		log.Debug().Str("component_id", item.ID).Err(err).Msg("component expansion failed")
		item.Name = componentPlaceholderName(item.ID)
		return item
	}
	item.Name = detail.Name
	item.SchemaID = detail.SchemaID
	item.SchemaVariantID = detail.SchemaVariantID
	item.ResourceID = detail.ResourceID
	return item
}

func (a SIClientAdapter) GetComponent(ctx context.Context, changeSetID string, componentID string) (types.ComponentDetail, error) {
	if err := requireChangeSet(changeSetID); err != nil {
		return types.ComponentDetail{}, err
	}
	if strings.TrimSpace(componentID) == "" {
		return types.ComponentDetail{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("component id is required")
	}
	return call(ctx, a, http.MethodGet, a.workspacePath("/change-sets/%s/components/%s", changeSetID, componentID), nil, nil,
		"component", typedComponent, lenientComponent)
}

// scanSchemas visits every schema page until visit returns false.
func (a SIClientAdapter) scanSchemas(ctx context.Context, changeSetID string, visit func(types.SchemaSummary) bool) error {
	if err := requireChangeSet(changeSetID); err != nil {
		return err
	}
	path := a.workspacePath("/change-sets/%s/schema", changeSetID)
	cursor := ""
	for page := 0; page < siMaxPages; page++ {
		result, err := call(ctx, a, http.MethodGet, path, pageQuery(cursor), nil,
			"schema list", typedSchemaPage, lenientSchemaPage)
		if err != nil {
			return err
		}
		for _, schema := range result.Items {
			if !visit(schema) {
				return nil
			}
		}
		if result.Next == "" || result.Next == cursor {
			return nil
		}
		cursor = result.Next
	}
	log.Warn().Str("change_set", changeSetID).Int("pages", siMaxPages).Msg("schema listing truncated")
	return nil
}

func (a SIClientAdapter) ListSchemas(ctx context.Context, changeSetID string) ([]types.SchemaSummary, error) {
	seen := map[string]struct{}{}
	var out []types.SchemaSummary
	err := a.scanSchemas(ctx, changeSetID, func(schema types.SchemaSummary) bool {
		if _, dup := seen[schema.ID]; !dup {
			seen[schema.ID] = struct{}{}
			out = append(out, schema)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a SIClientAdapter) FindSchema(ctx context.Context, changeSetID string, schemaName string) (types.SchemaSummary, error) {
	var found types.SchemaSummary
	var ok bool
	err := a.scanSchemas(ctx, changeSetID, func(schema types.SchemaSummary) bool {
		if schema.Matches(schemaName) {
			found, ok = schema, true
			return false
		}
		return true
	})
	if err != nil {
		return types.SchemaSummary{}, err
	}
	if !ok {
		return types.SchemaSummary{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("schema not found: " + schemaName)
	}
	return found, nil
}

func (a SIClientAdapter) LookupSchemaID(ctx context.Context, changeSetID string, schemaName string) (string, error) {
	schema, err := a.FindSchema(ctx, changeSetID, schemaName)
	if err != nil {
		return "", err
	}
	return schema.ID, nil
}

func (a SIClientAdapter) GetDefaultVariant(ctx context.Context, changeSetID string, schemaID string) (types.SchemaVariant, error) {
	if err := requireChangeSet(changeSetID); err != nil {
		return types.SchemaVariant{}, err
	}
	return call(ctx, a, http.MethodGet, a.workspacePath("/change-sets/%s/schema/%s/variant/default", changeSetID, schemaID), nil, nil,
		"schema variant", typedVariant, lenientVariant)
}

func (a SIClientAdapter) CreateComponent(ctx context.Context, changeSetID string, req types.CreateComponentRequest) (types.CreatedComponent, error) {
	if err := requireChangeSet(changeSetID); err != nil {
		return types.CreatedComponent{}, err
	}
	created, err := call(ctx, a, http.MethodPost, a.workspacePath("/change-sets/%s/components", changeSetID), nil, req,
		"create component", typedCreatedComponent, lenientCreatedComponent)
	if err != nil {
		return types.CreatedComponent{}, err
	}
	if created.Name == "" {
		created.Name = req.Name
	}
	return created, nil
}

func requireChangeSet(changeSetID string) error {
	if strings.TrimSpace(changeSetID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("change set id is required")
	}
	return nil
}

func pageQuery(cursor string) url.Values {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(siPageLimit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	return query
}

var _ ports.SessionPort = SIClientAdapter{}
