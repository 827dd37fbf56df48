package types

type ExtractionMetadata struct {
	ExtractedFrom         string `json:"extracted_from"`
	ChangeSetID           string `json:"changeset_id"`
	ExtractedAt           string `json:"extracted_at"`
	ExtractorVersion      string `json:"extractor_version"`
	ComponentID           string `json:"component_id"`
	OriginalComponentName string `json:"original_component_name"`
	SchemaName            string `json:"schema_name"`
	Digest                string `json:"digest,omitempty"`
	Note                  string `json:"note"`
}

type ExtractedComponent struct {
	Description            string                 `json:"description"`
	OriginalComponentID    string                 `json:"original_component_id"`
	SchemaName             string                 `json:"schema_name"`
	CreateComponentRequest CreateComponentRequest `json:"create_component_request"`
}

// ExtractionRecord is the file written for one extracted component.
// ReferenceExamples is generated guidance, not authoritative data.
type ExtractionRecord struct {
	Metadata          ExtractionMetadata `json:"_extraction_metadata"`
	Component         ExtractedComponent `json:"extracted_component"`
	ReferenceExamples map[string]any     `json:"_reference_examples"`
}

type ExtractionItem struct {
	ComponentID   string `json:"component_id"`
	ComponentName string `json:"component_name"`
	SchemaName    string `json:"schema_name"`
	Filename      string `json:"filename,omitempty"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

type ExtractionSummary struct {
	Success               bool             `json:"success"`
	ChangeSetID           string           `json:"changeset_id"`
	ExtractedAt           string           `json:"extracted_at"`
	ComponentCount        int              `json:"component_count"`
	SuccessfulExtractions int              `json:"successful_extractions"`
	FailedExtractions     int              `json:"failed_extractions"`
	FilesCreated          []string         `json:"files_created"`
	OutputDirectory       string           `json:"output_directory"`
	Details               []ExtractionItem `json:"extraction_details"`
}
