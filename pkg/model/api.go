package model

import "time"

// Response is the envelope around every API payload, success or failure.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination describes one page of the run listing.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Run listing bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListOptions selects a page of stored runs, optionally only those scheduled
// under one policy.
type ListOptions struct {
	Limit  int
	Offset int
	Policy string
}

func DefaultListOptions() ListOptions {
	return ListOptions{Limit: DefaultListLimit}
}

// Clamp keeps Limit within 1..MaxListLimit and Offset non-negative.
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	o.Limit = min(o.Limit, MaxListLimit)
	o.Offset = max(o.Offset, 0)
}

// PolicyFilter returns the canonical policy to filter on, or "" for no filter.
// An unknown name is a validation error on the "policy" field.
func (o ListOptions) PolicyFilter() (PolicyName, error) {
	if o.Policy == "" {
		return "", nil
	}
	name, err := NormalizePolicyName(o.Policy)
	if err != nil {
		return "", NewValidationError("invalid list filter", FieldError{Field: "policy", Message: err.Error()})
	}
	return name, nil
}

// Page builds the pagination block for a listing of total matching runs.
func (o ListOptions) Page(total int) *Pagination {
	return &Pagination{
		Total:   total,
		Limit:   o.Limit,
		Offset:  o.Offset,
		HasMore: o.Offset+o.Limit < total,
	}
}
