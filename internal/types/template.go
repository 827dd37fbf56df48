package types

type RequiredAttribute struct {
	Path     string `json:"path"`
	Reason   string `json:"reason"`
	Value    any    `json:"value,omitempty"`
	Required bool   `json:"-"`
}

type RequiredAnalysis struct {
	Found   []RequiredAttribute `json:"required_attributes_found"`
	Missing []RequiredAttribute `json:"required_attributes_missing"`
}

type SchemaTemplateMetadata struct {
	SchemaName               string           `json:"schema_name"`
	SchemaID                 string           `json:"schema_id"`
	VariantID                string           `json:"variant_id,omitempty"`
	GeneratedFrom            string           `json:"generated_from"`
	GeneratedAt              string           `json:"generated_at"`
	UIFormat                 string           `json:"ui_format"`
	SchemaInstalled          bool             `json:"schema_installed"`
	InputSubscriptionsCount  int              `json:"input_subscriptions_count"`
	OutputSubscriptionsCount int              `json:"output_subscriptions_count"`
	RequiredAnalysis         RequiredAnalysis `json:"required_attributes_analysis"`
}

type UsageExample struct {
	Description            string                 `json:"description"`
	CreateComponentRequest CreateComponentRequest `json:"create_component_request"`
}

// SchemaTemplate is the generated starting point for configs of one schema.
type SchemaTemplate struct {
	Metadata       SchemaTemplateMetadata `json:"_metadata"`
	UsageExample   UsageExample           `json:"_complete_usage_example"`
	NeededToDeploy UsageExample           `json:"_needed_to_deploy"`
	Templates      []ComponentConfig      `json:"templates"`
}
