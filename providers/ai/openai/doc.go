// Package openai implements [ai.Provider] against the OpenAI chat
// completions API (and any endpoint speaking the same dialect, such as
// OpenRouter or a local server). Credentials come from OPENAI_API_KEY and the
// endpoint from OPENAI_API_BASE_URL, overridable through the Provider's
// With* methods.
package openai
