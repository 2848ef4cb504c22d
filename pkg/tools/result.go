package tools

// ToolResult is what a tool hands back to the transport.
type ToolResult struct {
	// ForLLM is the text returned to the calling agent.
	ForLLM string `json:"for_llm"`
	// ForUser is an optional operator-facing variant; empty means ForLLM.
	ForUser string `json:"for_user,omitempty"`
	IsError bool   `json:"is_error"`
	// Preview is set when a destructive tool returned its confirmation
	// request instead of running.
	Preview bool  `json:"preview,omitempty"`
	Err     error `json:"-"`
}

func NewToolResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM}
}

// PreviewResult wraps a confirmation request from the safety gate.
func PreviewResult(text string) *ToolResult {
	return &ToolResult{ForLLM: text, Preview: true}
}

func ErrorResult(message string) *ToolResult {
	return &ToolResult{ForLLM: message, IsError: true}
}

// WithError attaches the underlying error for callers that inspect it.
func (r *ToolResult) WithError(err error) *ToolResult {
	r.Err = err
	return r
}

// Text returns the operator-facing text.
func (r *ToolResult) Text() string {
	if r.ForUser != "" {
		return r.ForUser
	}
	return r.ForLLM
}
