package core

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gobwas/glob"

	"si-components/internal/shared"
	"si-components/internal/types"
)

// ConfigCatalog is a lookup view over validated configs.
type ConfigCatalog struct {
	configs []types.ComponentConfig
}

func NewConfigCatalog(configs []types.ComponentConfig) ConfigCatalog {
	return ConfigCatalog{configs: configs}
}

// Find matches an exact name first, then a case-insensitive substring.
func (c ConfigCatalog) Find(name string) (types.ComponentConfig, bool) {
	for _, cfg := range c.configs {
		if cfg.Name == name {
			return cfg, true
		}
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return types.ComponentConfig{}, false
	}
	for _, cfg := range c.configs {
		if strings.Contains(strings.ToLower(cfg.Name), needle) {
			return cfg, true
		}
	}
	return types.ComponentConfig{}, false
}

// Select narrows the catalog to the named configs and those whose name
// matches pattern. With neither, everything is selected. Names that match
// nothing are returned as missing; order follows the catalog.
func (c ConfigCatalog) Select(names []string, pattern string) ([]types.ComponentConfig, []string, error) {
	if len(names) == 0 && strings.TrimSpace(pattern) == "" {
		return c.configs, nil, nil
	}
	match, err := NameMatcher(pattern)
	if err != nil {
		return nil, nil, err
	}
	wanted := map[string]struct{}{}
	var missing []string
	for _, name := range names {
		cfg, ok := c.Find(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		wanted[cfg.Name] = struct{}{}
	}
	var selected []types.ComponentConfig
	for _, cfg := range c.configs {
		_, named := wanted[cfg.Name]
		if named || (pattern != "" && match(cfg.Name)) {
			selected = append(selected, cfg)
		}
	}
	return selected, missing, nil
}

// NameMatcher compiles a glob pattern such as "web-*" or "AWS::EC2::*".
// An empty pattern matches everything.
func NameMatcher(pattern string) (func(string) bool, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return func(string) bool { return true }, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid name pattern " + pattern).
			WithCause(err)
	}
	return g.Match, nil
}

// StarterConfig is the legacy-format skeleton written by init-template.
func StarterConfig(schemaName string) types.ComponentConfig {
	return types.ComponentConfig{
		Name:       TemplateComponentName(schemaName),
		SchemaName: schemaName,
		Attributes: map[string]any{},
		Domain: map[string]any{
			"Name":        "My" + strings.ReplaceAll(schemaName, " ", ""),
			"Environment": "development",
			"Owner":       "team-name",
		},
	}
}

// ExportFilename is the default file name for an exported config.
func ExportFilename(name string) string {
	return shared.SafeFilename(name) + ".json"
}
