package domain

// ResponseSchema constrains the shape of a model reply. Definition is a JSON
// Schema document.
type ResponseSchema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type CompletionRequest struct {
	// System is empty when the model family takes no system instruction.
	System string
	User   string
	// Schema is nil in free-form mode.
	Schema      *ResponseSchema
	Temperature float64
	MaxTokens   int64
	// Reasoning marks requests to reasoning-family models, which count
	// MaxTokens as completion tokens including hidden reasoning.
	Reasoning bool
}

type CompletionReply struct {
	Content string
	// Thinking is reasoning text the service returns next to the content, if any.
	Thinking string
	Usage    Usage
}
