package types

// Outcome classifies how a job description acquisition ended.
type Outcome string

// Acquisition outcomes.
const (
	OutcomeSuccess           Outcome = "success"
	OutcomeHTTPFailure       Outcome = "http-failure"
	OutcomeExtractionFailure Outcome = "extraction-failure"
	OutcomeTransportError    Outcome = "transport-error"
)

// JobText is the plain-text job description extracted from a posting.
type JobText struct {
	Text       string  `json:"text"`
	SourceURL  string  `json:"source_url"`
	Outcome    Outcome `json:"outcome"`
	Message    string  `json:"message,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
}

// OK reports whether the acquisition succeeded.
func (j *JobText) OK() bool {
	return j != nil && j.Outcome == OutcomeSuccess
}

// TemplateBlob is the raw text of a typesetting source file.
type TemplateBlob struct {
	Path    string
	Content string
}
