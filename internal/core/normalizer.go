package core

import (
	"strings"

	"si-components/internal/types"
)

// DefaultSecretKeys are bare attribute keys that belong under /secrets/.
var DefaultSecretKeys = []string{"AWS Credential"}

// Normalizer folds legacy domain/secrets/bare attribute keys into the
// path-addressed form the create-component API expects.
type Normalizer struct {
	secretKeys map[string]struct{}
}

// NewNormalizer builds a Normalizer. With no keys, DefaultSecretKeys is used.
func NewNormalizer(secretKeys ...string) Normalizer {
	if len(secretKeys) == 0 {
		secretKeys = DefaultSecretKeys
	}
	set := make(map[string]struct{}, len(secretKeys))
	for _, key := range secretKeys {
		key = strings.TrimSpace(key)
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return Normalizer{secretKeys: set}
}

// Normalize is idempotent: prefixed keys and $source markers pass through
// untouched, so a canonical record comes back equal to itself.
func (n Normalizer) Normalize(cfg types.ComponentConfig) types.ComponentConfig {
	out := cfg
	attrs := make(map[string]any, len(cfg.Attributes)+len(cfg.Domain)+len(cfg.Secrets))
	for key, value := range cfg.Domain {
		attrs[types.PrefixDomain+key] = value
	}
	for key, value := range cfg.Secrets {
		attrs[types.PrefixSecrets+key] = value
	}
	for key, value := range cfg.Attributes {
		switch {
		case strings.HasPrefix(key, "/"):
			attrs[key] = value
		case n.IsSecretKey(key):
			attrs[types.PrefixSecrets+key] = value
		default:
			attrs[types.PrefixDomain+key] = value
		}
	}
	if cfg.Attributes == nil && len(attrs) == 0 {
		attrs = nil
	}
	out.Attributes = attrs
	out.Domain = nil
	out.Secrets = nil
	return out
}

func (n Normalizer) NormalizeAll(configs []types.ComponentConfig) []types.ComponentConfig {
	out := make([]types.ComponentConfig, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, n.Normalize(cfg))
	}
	return out
}

func (n Normalizer) IsSecretKey(key string) bool {
	_, ok := n.secretKeys[key]
	return ok
}

// BuildCreateRequest turns a normalized config into the API payload.
// Attributes is always present, possibly empty.
func BuildCreateRequest(cfg types.ComponentConfig) types.CreateComponentRequest {
	attrs := cfg.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return types.CreateComponentRequest{
		Name:          cfg.Name,
		SchemaName:    cfg.SchemaName,
		Attributes:    attrs,
		ResourceID:    cfg.ResourceID,
		ViewName:      cfg.ViewName,
		Connections:   cfg.Connections,
		Subscriptions: cfg.Subscriptions,
		ManagedBy:     cfg.ManagedBy,
	}
}
