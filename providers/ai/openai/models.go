package openai

import "github.com/tugaep/wikireact/providers/ai"

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /v1/chat/completions request format
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	TopP        *float32      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// requestFromGeneric converts an ai.ChatRequest to the chat completions wire
// format. The system prompt, when present, becomes the first message.
func requestFromGeneric(request ai.ChatRequest) chatCompletionRequest {
	out := chatCompletionRequest{
		Model: request.Model,
	}

	if request.SystemPrompt != "" {
		out.Messages = append(out.Messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, m := range request.Messages {
		out.Messages = append(out.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != 0 {
			temperature := cfg.Temperature
			out.Temperature = &temperature
		}
		if cfg.TopP != 0 {
			topP := cfg.TopP
			out.TopP = &topP
		}
		if cfg.MaxTokens > 0 {
			maxTokens := cfg.MaxTokens
			out.MaxTokens = &maxTokens
		}
		out.Stop = cfg.Stop
	}

	return out
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

// chatCompletionResponse represents the /v1/chat/completions response format
type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// responseToGeneric converts the wire response to an ai.ChatResponse,
// reading the first choice only.
func responseToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	choice := resp.Choices[0]

	out := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Created:      resp.Created,
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}
	if resp.Usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out
}
