package core

import (
	"strings"

	"github.com/rs/zerolog/log"

	"si-components/internal/types"
)

// ReferenceKind groups extracted components by what other components can
// take from them.
type ReferenceKind string

const (
	RefCredential    ReferenceKind = "aws_credentials"
	RefRegion        ReferenceKind = "regions"
	RefVPC           ReferenceKind = "vpcs"
	RefSubnet        ReferenceKind = "subnets"
	RefSecurityGroup ReferenceKind = "security_groups"
	RefOther         ReferenceKind = "other"
)

type referenceSource struct {
	kind ReferenceKind
	path string
}

var referenceSources = map[string]referenceSource{
	"AWS Credential":          {RefCredential, "/secrets/AWS Credential"},
	"Region":                  {RefRegion, "/domain/region"},
	"AWS::EC2::VPC":           {RefVPC, "/resource_value/VpcId"},
	"AWS::EC2::Subnet":        {RefSubnet, "/resource_value/SubnetId"},
	"AWS::EC2::SecurityGroup": {RefSecurityGroup, "/resource_value/GroupId"},
}

const (
	credentialPath = "/secrets/AWS Credential"
	extraRegion    = "/domain/extra/Region"
)

type CatalogEntry struct {
	Name       string `json:"name"`
	SchemaName string `json:"schema_name"`
	Path       string `json:"path,omitempty"`
}

func (e CatalogEntry) Reference() map[string]any {
	return types.NewReference(e.Name, e.Path)
}

// ReferenceCatalog indexes extracted components by reference kind. The
// first entry of each kind wins when injecting.
type ReferenceCatalog struct {
	entries map[ReferenceKind][]CatalogEntry
}

func NewReferenceCatalog(records []types.ExtractionRecord) ReferenceCatalog {
	catalog := ReferenceCatalog{entries: map[ReferenceKind][]CatalogEntry{}}
	for _, record := range records {
		req := record.Component.CreateComponentRequest
		entry := CatalogEntry{Name: req.Name, SchemaName: req.SchemaName}
		kind := RefOther
		if source, ok := referenceSources[req.SchemaName]; ok {
			kind = source.kind
			entry.Path = source.path
		}
		catalog.entries[kind] = append(catalog.entries[kind], entry)
	}
	return catalog
}

func (c ReferenceCatalog) First(kind ReferenceKind) (CatalogEntry, bool) {
	list := c.entries[kind]
	if len(list) == 0 {
		return CatalogEntry{}, false
	}
	return list[0], true
}

func (c ReferenceCatalog) Counts() map[ReferenceKind]int {
	counts := map[ReferenceKind]int{}
	for _, kind := range []ReferenceKind{RefCredential, RefRegion, RefVPC, RefSubnet, RefSecurityGroup, RefOther} {
		counts[kind] = len(c.entries[kind])
	}
	return counts
}

// GeneratedConfig is a component config built from a schema template plus
// references to already extracted components.
type GeneratedConfig struct {
	Config         types.ComponentConfig
	ReferencesUsed int
}

// GenerateConfig starts from the template's needed-to-deploy attributes and
// swaps placeholders for references into refs. AWS schemas always end up
// with a credential and a region reference.
func GenerateConfig(schemaName string, componentName string, base map[string]any, refs ReferenceCatalog) GeneratedConfig {
	attrs := make(map[string]any, len(base)+2)
	for key, value := range base {
		attrs[key] = value
	}
	logger := log.With().Str("component", componentName).Str("schema", schemaName).Logger()

	inject := func(keys []string, kind ReferenceKind, asList bool) {
		for _, key := range keys {
			if _, ok := attrs[key]; !ok {
				continue
			}
			entry, found := refs.First(kind)
			if !found {
				return
			}
			var value any = entry.Reference()
			if asList {
				value = []any{value}
			}
			attrs[key] = value
			logger.Debug().Str("path", key).Str("source", entry.Name).Msg("injected reference")
			return
		}
	}

	inject([]string{credentialPath}, RefCredential, false)
	inject([]string{extraRegion, "/domain/Region", "/domain/AvailabilityZone"}, RefRegion, false)
	if strings.HasPrefix(schemaName, "AWS::EC2::") {
		inject([]string{"/domain/VpcId", "/domain/Vpc"}, RefVPC, false)
		injectSubnet(attrs, refs)
		inject([]string{"/domain/SecurityGroupIds", "/domain/SecurityGroups"}, RefSecurityGroup, true)
	}
	if strings.HasPrefix(schemaName, "AWS::") {
		ensureAWSRequirements(attrs, refs)
	}
	if _, ok := attrs[types.PrefixDomain+"Name"]; !ok {
		attrs[types.PrefixDomain+"Name"] = componentName
	}

	used := 0
	for _, value := range attrs {
		if _, ok := types.AsReference(value); ok {
			used++
		}
	}
	return GeneratedConfig{
		Config: types.ComponentConfig{
			Name:       componentName,
			SchemaName: schemaName,
			Attributes: attrs,
		},
		ReferencesUsed: used,
	}
}

func injectSubnet(attrs map[string]any, refs ReferenceCatalog) {
	entry, found := refs.First(RefSubnet)
	if !found {
		return
	}
	if _, ok := attrs["/domain/SubnetId"]; ok {
		attrs["/domain/SubnetId"] = entry.Reference()
		return
	}
	if _, ok := attrs["/domain/SubnetIds"]; ok {
		attrs["/domain/SubnetIds"] = []any{entry.Reference()}
	}
}

func ensureAWSRequirements(attrs map[string]any, refs ReferenceCatalog) {
	if _, ok := attrs[credentialPath]; !ok {
		if entry, found := refs.First(RefCredential); found {
			attrs[credentialPath] = entry.Reference()
		} else {
			attrs[credentialPath] = types.NewReference("my-aws-credential", credentialPath)
		}
	}
	_, hasExtra := attrs[extraRegion]
	_, hasRegion := attrs["/domain/Region"]
	if hasExtra || hasRegion {
		return
	}
	if entry, found := refs.First(RefRegion); found {
		attrs[extraRegion] = entry.Reference()
	} else {
		attrs[extraRegion] = types.NewReference("my-region", "/domain/region")
	}
}

// GeneratedFilename names the config file written for a generated component.
func GeneratedFilename(componentName string) string {
	name := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(componentName)))
	return name + ".json"
}
