package advisor

// Request captures the payload accepted by the activity advisor.
type Request struct {
	City string `json:"city"`
}

// Activity is one recommendation entry.
type Activity struct {
	Name     string `json:"name"`
	Suitable bool   `json:"suitable"`
	Reason   string `json:"reason"`
}

// Response is serialized back to API consumers.
type Response struct {
	City       string     `json:"city"`
	Summary    string     `json:"summary"`
	Activities []Activity `json:"activities"`
	Source     string     `json:"source"`
}

// Recommendation sources.
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

// Config wires runtime dependencies for the advisor domain.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string
}
