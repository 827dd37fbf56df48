package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"si-components/internal/shared"
	"si-components/internal/types"
)

// Typed models of the SI public API. Decoding into these is the "sdk"
// path; a missing required field is reported as a shape error.

type sdkChangeSet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	IsHead bool   `json:"isHead"`
}

type sdkChangeSetList struct {
	ChangeSets *[]sdkChangeSet `json:"changeSets"`
}

type sdkChangeSetEnvelope struct {
	ChangeSet *sdkChangeSet `json:"changeSet"`
}

type sdkComponentRef struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SchemaName      string `json:"schemaName"`
	SchemaID        string `json:"schemaId"`
	SchemaVariantID string `json:"schemaVariantId"`
	ResourceID      string `json:"resourceId"`
	CreatedAt       string `json:"createdAt"`
}

type sdkComponentList struct {
	Components *[]sdkComponentRef `json:"components"`
	NextCursor *string            `json:"nextCursor"`
}

type sdkSocket struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Direction     string `json:"direction"`
	Kind          string `json:"kind"`
	AttributePath string `json:"attributePath"`
}

type sdkComponent struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	SchemaID        string         `json:"schemaId"`
	SchemaVariantID string         `json:"schemaVariantId"`
	ResourceID      string         `json:"resourceId"`
	ToDelete        bool           `json:"toDelete"`
	CanBeUpgraded   bool           `json:"canBeUpgraded"`
	Attributes      map[string]any `json:"attributes"`
	Sockets         []sdkSocket    `json:"sockets"`
	Connections     []any          `json:"connections"`
}

type sdkComponentEnvelope struct {
	Component *sdkComponent `json:"component"`
}

type sdkSchema struct {
	SchemaID    string `json:"schemaId"`
	SchemaName  string `json:"schemaName"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	Installed   *bool  `json:"installed"`
}

type sdkSchemaList struct {
	Schemas    *[]sdkSchema `json:"schemas"`
	NextCursor *string      `json:"nextCursor"`
}

type sdkProp struct {
	PropID       string    `json:"propId"`
	Name         string    `json:"name"`
	PropType     string    `json:"propType"`
	Description  string    `json:"description"`
	Required     bool      `json:"required"`
	DefaultValue any       `json:"defaultValue"`
	Children     []sdkProp `json:"children"`
}

type sdkVariant struct {
	VariantID     string      `json:"variantId"`
	DisplayName   string      `json:"displayName"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	DomainProps   *sdkProp    `json:"domainProps"`
	InputSockets  []sdkSocket `json:"inputSockets"`
	OutputSockets []sdkSocket `json:"outputSockets"`
}

type componentPage struct {
	Items []types.ComponentSummary
	Next  string
}

type schemaPage struct {
	Items []types.SchemaSummary
	Next  string
}

func decodeTyped[T any](what string, body []byte, check func(T) error) (T, error) {
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return value, shapeError(what, err)
	}
	if err := check(value); err != nil {
		return value, shapeError(what, err)
	}
	return value, nil
}

func typedChangeSets(body []byte) ([]types.ChangeSet, error) {
	list, err := decodeTyped("change set list", body, func(v sdkChangeSetList) error {
		if v.ChangeSets == nil {
			return errors.New("missing changeSets")
		}
		for _, cs := range *v.ChangeSets {
			if cs.ID == "" {
				return errors.New("change set without id")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.ChangeSet, 0, len(*list.ChangeSets))
	for _, cs := range *list.ChangeSets {
		out = append(out, cs.toChangeSet())
	}
	return out, nil
}

func typedChangeSet(body []byte) (types.ChangeSet, error) {
	envelope, err := decodeTyped("change set", body, func(v sdkChangeSetEnvelope) error {
		if v.ChangeSet == nil || v.ChangeSet.ID == "" {
			return errors.New("missing changeSet.id")
		}
		return nil
	})
	if err != nil {
		return types.ChangeSet{}, err
	}
	return envelope.ChangeSet.toChangeSet(), nil
}

func (c sdkChangeSet) toChangeSet() types.ChangeSet {
	return types.ChangeSet{ID: c.ID, Name: c.Name, Status: c.Status, IsHead: c.IsHead}
}

func typedComponentPage(body []byte) (componentPage, error) {
	list, err := decodeTyped("component list", body, func(v sdkComponentList) error {
		if v.Components == nil {
			return errors.New("missing components")
		}
		for _, ref := range *v.Components {
			if ref.ID == "" {
				return errors.New("component without id")
			}
		}
		return nil
	})
	if err != nil {
		return componentPage{}, err
	}
	page := componentPage{Items: make([]types.ComponentSummary, 0, len(*list.Components))}
	for _, ref := range *list.Components {
		page.Items = append(page.Items, types.ComponentSummary{
			ID:              ref.ID,
			Name:            ref.Name,
			SchemaName:      ref.SchemaName,
			SchemaID:        ref.SchemaID,
			SchemaVariantID: ref.SchemaVariantID,
			ResourceID:      ref.ResourceID,
			CreatedAt:       parseTimeFlexible(ref.CreatedAt),
		})
	}
	if list.NextCursor != nil {
		page.Next = *list.NextCursor
	}
	return page, nil
}

func typedComponent(body []byte) (types.ComponentDetail, error) {
	envelope, err := decodeTyped("component", body, func(v sdkComponentEnvelope) error {
		if v.Component == nil || v.Component.ID == "" {
			return errors.New("missing component.id")
		}
		return nil
	})
	if err != nil {
		return types.ComponentDetail{}, err
	}
	c := envelope.Component
	detail := types.ComponentDetail{
		ID:              c.ID,
		Name:            c.Name,
		SchemaID:        c.SchemaID,
		SchemaVariantID: c.SchemaVariantID,
		ResourceID:      c.ResourceID,
		ToDelete:        c.ToDelete,
		CanBeUpgraded:   c.CanBeUpgraded,
		Attributes:      c.Attributes,
		Connections:     c.Connections,
	}
	for _, socket := range c.Sockets {
		detail.Sockets = append(detail.Sockets, socket.toSocket())
	}
	if detail.Attributes == nil {
		detail.Attributes = map[string]any{}
	}
	return detail, nil
}

func typedCreatedComponent(body []byte) (types.CreatedComponent, error) {
	envelope, err := decodeTyped("create component", body, func(v sdkComponentEnvelope) error {
		if v.Component == nil || v.Component.ID == "" {
			return errors.New("missing component.id")
		}
		return nil
	})
	if err != nil {
		return types.CreatedComponent{}, err
	}
	return types.CreatedComponent{ID: envelope.Component.ID, Name: envelope.Component.Name}, nil
}

func typedSchemaPage(body []byte) (schemaPage, error) {
	list, err := decodeTyped("schema list", body, func(v sdkSchemaList) error {
		if v.Schemas == nil {
			return errors.New("missing schemas")
		}
		for _, schema := range *v.Schemas {
			if schema.SchemaID == "" || schema.SchemaName == "" {
				return errors.New("schema without schemaId or schemaName")
			}
		}
		return nil
	})
	if err != nil {
		return schemaPage{}, err
	}
	page := schemaPage{Items: make([]types.SchemaSummary, 0, len(*list.Schemas))}
	for _, schema := range *list.Schemas {
		installed := true
		if schema.Installed != nil {
			installed = *schema.Installed
		}
		page.Items = append(page.Items, types.SchemaSummary{
			ID:          schema.SchemaID,
			Name:        schema.SchemaName,
			DisplayName: schema.DisplayName,
			Category:    schema.Category,
			Installed:   installed,
		})
	}
	if list.NextCursor != nil {
		page.Next = *list.NextCursor
	}
	return page, nil
}

func typedVariant(body []byte) (types.SchemaVariant, error) {
	variant, err := decodeTyped("schema variant", body, func(v sdkVariant) error {
		if v.VariantID == "" {
			return errors.New("missing variantId")
		}
		return nil
	})
	if err != nil {
		return types.SchemaVariant{}, err
	}
	return variant.toSchemaVariant(), nil
}

func (v sdkVariant) toSchemaVariant() types.SchemaVariant {
	out := types.SchemaVariant{
		VariantID:   v.VariantID,
		DisplayName: v.DisplayName,
		Category:    v.Category,
		Description: v.Description,
	}
	if v.DomainProps != nil {
		out.DomainProps = flattenProps(*v.DomainProps, "")
	}
	for _, socket := range v.InputSockets {
		s := socket.toSocket()
		s.Direction = types.SocketInput
		out.InputSockets = append(out.InputSockets, s)
	}
	for _, socket := range v.OutputSockets {
		s := socket.toSocket()
		s.Direction = types.SocketOutput
		out.OutputSockets = append(out.OutputSockets, s)
	}
	return out
}

func (s sdkSocket) toSocket() types.Socket {
	return types.Socket{
		Name:      s.Name,
		Direction: strings.ToLower(s.Direction),
		Kind:      s.Kind,
		Path:      s.AttributePath,
	}
}

// flattenProps turns a prop tree into leaf attributes. The "root" and
// "domain" containers map onto the /domain/ prefix.
func flattenProps(prop sdkProp, parent string) []types.PropDef {
	base := parent
	if base == "" {
		base = strings.TrimSuffix(types.PrefixDomain, "/")
		if prop.Name != "root" && prop.Name != "domain" {
			return flattenNode(prop, base)
		}
		var out []types.PropDef
		for _, child := range prop.Children {
			out = append(out, flattenProps(child, base)...)
		}
		return out
	}
	return flattenNode(prop, base)
}

func flattenNode(prop sdkProp, parent string) []types.PropDef {
	path := parent + "/" + prop.Name
	if len(prop.Children) == 0 {
		return []types.PropDef{{
			Name:        prop.Name,
			Path:        path,
			Kind:        prop.PropType,
			Required:    prop.Required,
			Description: prop.Description,
			Default:     prop.DefaultValue,
		}}
	}
	var out []types.PropDef
	for _, child := range prop.Children {
		out = append(out, flattenNode(child, path)...)
	}
	return out
}

// Lenient decoders accept the shapes the API has been seen to return:
// bare lists or wrapped objects, camelCase or snake_case keys, component ids
// in place of component objects.

func decodeLoose(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func lenientChangeSets(body []byte) ([]types.ChangeSet, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return nil, err
	}
	var out []types.ChangeSet
	for _, item := range extractItems(payload, "changeSets", "change_sets", "items", "data") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cs := looseChangeSet(entry)
		if cs.ID != "" {
			out = append(out, cs)
		}
	}
	return out, nil
}

func lenientChangeSet(body []byte) (types.ChangeSet, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return types.ChangeSet{}, err
	}
	entry := unwrap(payload, "changeSet", "change_set")
	cs := looseChangeSet(entry)
	if cs.ID == "" {
		return types.ChangeSet{}, errors.New("change set id missing from response")
	}
	return cs, nil
}

func looseChangeSet(entry map[string]any) types.ChangeSet {
	return types.ChangeSet{
		ID:     firstString(entry, "id", "changeSetId", "change_set_id"),
		Name:   firstString(entry, "name", "changeSetName"),
		Status: firstString(entry, "status"),
		IsHead: firstBool(entry, "isHead", "is_head"),
	}
}

func lenientComponentPage(body []byte) (componentPage, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return componentPage{}, err
	}
	var page componentPage
	for _, item := range extractItems(payload, "components", "items", "data") {
		switch entry := item.(type) {
		case string:
			// An id only; ListComponents fills in the rest.
			page.Items = append(page.Items, types.ComponentSummary{ID: entry})
		case map[string]any:
			id := firstString(entry, "id", "componentId", "component_id")
			if id == "" {
				continue
			}
			page.Items = append(page.Items, types.ComponentSummary{
				ID:              id,
				Name:            firstString(entry, "name", "displayName", "display_name"),
				SchemaName:      firstString(entry, "schemaName", "schema_name"),
				SchemaID:        firstString(entry, "schemaId", "schema_id"),
				SchemaVariantID: firstString(entry, "schemaVariantId", "schema_variant_id"),
				ResourceID:      firstString(entry, "resourceId", "resource_id"),
				CreatedAt:       parseTimeFlexible(firstString(entry, "createdAt", "created_at")),
			})
		}
	}
	if obj, ok := payload.(map[string]any); ok {
		page.Next = firstString(obj, "nextCursor", "next_cursor")
	}
	return page, nil
}

func lenientComponent(body []byte) (types.ComponentDetail, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return types.ComponentDetail{}, err
	}
	entry := unwrap(payload, "component")
	detail := types.ComponentDetail{
		ID:              firstString(entry, "id", "componentId", "component_id"),
		Name:            firstString(entry, "name", "displayName", "display_name"),
		SchemaID:        firstString(entry, "schemaId", "schema_id"),
		SchemaVariantID: firstString(entry, "schemaVariantId", "schema_variant_id"),
		ResourceID:      firstString(entry, "resourceId", "resource_id"),
		ToDelete:        firstBool(entry, "toDelete", "to_delete"),
		CanBeUpgraded:   firstBool(entry, "canBeUpgraded", "can_be_upgraded"),
		Attributes:      map[string]any{},
	}
	if detail.ID == "" {
		return types.ComponentDetail{}, errors.New("component id missing from response")
	}
	if attrs, ok := entry["attributes"].(map[string]any); ok {
		detail.Attributes = attrs
	}
	if sockets, ok := entry["sockets"].([]any); ok {
		detail.Sockets = looseSockets(sockets, "")
	}
	if connections, ok := entry["connections"].([]any); ok {
		detail.Connections = connections
	}
	return detail, nil
}

func lenientCreatedComponent(body []byte) (types.CreatedComponent, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return types.CreatedComponent{}, err
	}
	entry := unwrap(payload, "component")
	created := types.CreatedComponent{
		ID:   firstString(entry, "id", "componentId", "component_id"),
		Name: firstString(entry, "name"),
	}
	if created.ID == "" {
		if obj, ok := payload.(map[string]any); ok {
			created.ID = firstString(obj, "componentId", "component_id", "id")
		}
	}
	if created.ID == "" {
		return types.CreatedComponent{}, errors.New("component id missing from create response")
	}
	return created, nil
}

func lenientSchemaPage(body []byte) (schemaPage, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return schemaPage{}, err
	}
	var page schemaPage
	for _, item := range extractItems(payload, "schemas", "items", "data") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := firstString(entry, "schemaId", "schema_id", "id")
		name := firstString(entry, "schemaName", "schema_name", "name", "displayName", "title")
		if id == "" || name == "" {
			continue
		}
		installed := true
		if _, present := entry["installed"]; present {
			installed = firstBool(entry, "installed")
		}
		page.Items = append(page.Items, types.SchemaSummary{
			ID:          id,
			Name:        name,
			DisplayName: firstString(entry, "displayName", "display_name", "title"),
			Category:    firstString(entry, "category"),
			Installed:   installed,
		})
	}
	if obj, ok := payload.(map[string]any); ok {
		page.Next = firstString(obj, "nextCursor", "next_cursor")
	}
	return page, nil
}

func lenientVariant(body []byte) (types.SchemaVariant, error) {
	payload, err := decodeLoose(body)
	if err != nil {
		return types.SchemaVariant{}, err
	}
	entry := unwrap(payload, "variant", "schemaVariant")
	variant := types.SchemaVariant{
		VariantID:   firstString(entry, "variantId", "schemaVariantId", "variant_id", "id"),
		DisplayName: firstString(entry, "displayName", "display_name", "name"),
		Category:    firstString(entry, "category"),
		Description: firstString(entry, "description"),
	}
	switch props := entry["domainProps"].(type) {
	case map[string]any:
		if _, isNode := props["name"]; isNode {
			variant.DomainProps = flattenProps(looseProp(props, ""), "")
		} else {
			// name -> definition
			for _, name := range sortedAnyKeys(props) {
				def, _ := props[name].(map[string]any)
				variant.DomainProps = append(variant.DomainProps, flattenNode(looseProp(def, name), "/domain")...)
			}
		}
	case []any:
		for _, item := range props {
			if def, ok := item.(map[string]any); ok {
				variant.DomainProps = append(variant.DomainProps, flattenNode(looseProp(def, ""), "/domain")...)
			}
		}
	}
	if sockets, ok := entry["inputSockets"].([]any); ok {
		variant.InputSockets = looseSockets(sockets, types.SocketInput)
	}
	if sockets, ok := entry["outputSockets"].([]any); ok {
		variant.OutputSockets = looseSockets(sockets, types.SocketOutput)
	}
	return variant, nil
}

func looseProp(entry map[string]any, name string) sdkProp {
	prop := sdkProp{
		PropID:       firstString(entry, "propId", "prop_id", "id"),
		Name:         firstString(entry, "name"),
		PropType:     firstString(entry, "propType", "kind", "type"),
		Description:  firstString(entry, "description", "docLink"),
		Required:     firstBool(entry, "required", "isRequired"),
		DefaultValue: firstValue(entry, "defaultValue", "default"),
	}
	if prop.Name == "" {
		prop.Name = name
	}
	if children, ok := entry["children"].([]any); ok {
		for _, child := range children {
			if def, ok := child.(map[string]any); ok {
				prop.Children = append(prop.Children, looseProp(def, ""))
			}
		}
	}
	return prop
}

func looseSockets(items []any, direction string) []types.Socket {
	var out []types.Socket
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		socket := types.Socket{
			Name:      firstString(entry, "name"),
			Direction: strings.ToLower(firstString(entry, "direction")),
			Kind:      firstString(entry, "kind"),
			Path:      firstString(entry, "attributePath", "attribute_path"),
		}
		if direction != "" {
			socket.Direction = direction
		}
		if socket.Name != "" {
			out = append(out, socket)
		}
	}
	return out
}

func extractItems(payload any, keys ...string) []any {
	switch typed := payload.(type) {
	case []any:
		return typed
	case map[string]any:
		for _, key := range keys {
			if value, ok := typed[key]; ok {
				if list, ok := value.([]any); ok {
					return list
				}
			}
		}
	}
	return []any{}
}

// unwrap returns payload[key] when it is an object, else payload itself.
func unwrap(payload any, keys ...string) map[string]any {
	obj, ok := payload.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	for _, key := range keys {
		if inner, ok := obj[key].(map[string]any); ok {
			return inner
		}
	}
	return obj
}

func firstString(values map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := values[key]; ok {
			switch typed := raw.(type) {
			case string:
				return strings.TrimSpace(typed)
			case json.Number:
				return typed.String()
			}
		}
	}
	return ""
}

func firstBool(values map[string]any, keys ...string) bool {
	for _, key := range keys {
		if raw, ok := values[key].(bool); ok {
			return raw
		}
	}
	return false
}

func firstValue(values map[string]any, keys ...string) any {
	for _, key := range keys {
		if raw, ok := values[key]; ok && raw != nil {
			return raw
		}
	}
	return nil
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func componentPlaceholderName(id string) string {
	return fmt.Sprintf("Component %s...", shared.ShortID(id))
}
