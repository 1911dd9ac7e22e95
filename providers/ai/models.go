package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // All messages in the conversation except the system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

// GenerationConfig carries sampling parameters and stop sequences.
type GenerationConfig struct {
	MaxTokens   int      `json:"max_tokens,omitempty"`  // Optional cap on output length
	Temperature float32  `json:"temperature,omitempty"` // Sampling temperature [0..2]. Higher => more random.
	TopP        float32  `json:"top_p,omitempty"`       // Nucleus sampling [0..1]. Alternative to temperature.
	Stop        []string `json:"stop,omitempty"`        // Generation halts at the first occurrence of any of these.
}

/*
	##### PROVIDER OUTPUT #####
*/

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Created      int64  `json:"created"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message or tool observation
	RoleAssistant MessageRole = "assistant" // Model reply
)
