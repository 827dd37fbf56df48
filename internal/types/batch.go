package types

// ItemOutcome is the result of creating one component. Reason is nil for
// created items so the report encodes it as null.
type ItemOutcome struct {
	Name        string        `json:"name"`
	Status      OutcomeStatus `json:"status"`
	Reason      *string       `json:"reason"`
	Kind        ProblemKind   `json:"kind,omitempty"`
	ComponentID string        `json:"component_id,omitempty"`
	SchemaID    string        `json:"schema_id,omitempty"`
}

// BatchResult aggregates a creation batch. Items keep input order.
type BatchResult struct {
	Created int           `json:"created"`
	Failed  int           `json:"failed"`
	Items   []ItemOutcome `json:"items"`
}

// Tally recomputes the created/failed counters from Items.
func (r *BatchResult) Tally() {
	r.Created, r.Failed = 0, 0
	for _, item := range r.Items {
		switch item.Status {
		case OutcomeCreated:
			r.Created++
		case OutcomeFailed:
			r.Failed++
		}
	}
}
