package types

import "fmt"

// Problem is a recoverable error reported as data rather than aborting
// the pipeline.
type Problem struct {
	Kind    ProblemKind `json:"kind"`
	Message string      `json:"message"`
	Subject string      `json:"subject"`
	Details []string    `json:"details,omitempty"`
}

func (p Problem) String() string {
	if len(p.Details) == 0 {
		return fmt.Sprintf("%s: %s: %s", p.Kind, p.Subject, p.Message)
	}
	return fmt.Sprintf("%s: %s: %s (%d issue(s))", p.Kind, p.Subject, p.Message, len(p.Details))
}
