package wikireact

import (
	"context"

	"github.com/tugaep/wikireact/patterns/react"
	"github.com/tugaep/wikireact/providers/ai"
	"github.com/tugaep/wikireact/providers/ai/openai"
	"github.com/tugaep/wikireact/providers/observability"
	"github.com/tugaep/wikireact/providers/wiki"
	"github.com/tugaep/wikireact/providers/wiki/mediawiki"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Agent is the high-level entry point: one configured reasoning loop over
// a model provider and a knowledge source.
type Agent struct {
	driver *react.Driver
}

// Option configures an Agent.
type Option func(*config)

type config struct {
	provider   ai.Provider
	source     wiki.Source
	observer   observability.Provider
	model      string
	language   string
	driverOpts []react.Option
}

// WithProvider replaces the default OpenAI-backed model provider.
func WithProvider(provider ai.Provider) Option {
	return func(c *config) { c.provider = provider }
}

// WithSource replaces the default English Wikipedia source.
func WithSource(source wiki.Source) Option {
	return func(c *config) { c.source = source }
}

// WithObserver attaches an observability provider to the loop.
func WithObserver(observer observability.Provider) Option {
	return func(c *config) { c.observer = observer }
}

// WithModel selects the model identifier. Defaults to DefaultModel.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithLanguage selects the Wikipedia language edition, e.g. "de" or "fr".
// Ignored when a custom source is set through WithSource.
func WithLanguage(lang string) Option {
	return func(c *config) { c.language = lang }
}

// WithTurnBudget bounds the number of reasoning turns per Ask.
func WithTurnBudget(n int) Option {
	return func(c *config) {
		c.driverOpts = append(c.driverOpts, react.WithTurnBudget(n))
	}
}

// WithPromptFile persists the base prompt at path and reloads it from there
// on later runs, so it can be edited between sessions.
func WithPromptFile(path string) Option {
	return func(c *config) {
		c.driverOpts = append(c.driverOpts, react.WithPromptFile(path))
	}
}

// WithDriverOptions forwards options to the underlying react.Driver for
// anything the Agent options do not cover.
func WithDriverOptions(opts ...react.Option) Option {
	return func(c *config) {
		c.driverOpts = append(c.driverOpts, opts...)
	}
}

// New builds an Agent. Without options it talks to OpenAI using the
// OPENAI_API_KEY environment variable and searches English Wikipedia.
func New(opts ...Option) (*Agent, error) {
	cfg := &config{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.provider == nil {
		cfg.provider = openai.NewOpenAIProvider()
	}
	if cfg.source == nil {
		var sourceOpts []mediawiki.Option
		if cfg.language != "" {
			sourceOpts = append(sourceOpts, mediawiki.WithLanguage(cfg.language))
		}
		cfg.source = mediawiki.NewClient(sourceOpts...)
	}

	driverOpts := []react.Option{react.WithModel(cfg.model)}
	if cfg.observer != nil {
		driverOpts = append(driverOpts, react.WithObserver(cfg.observer))
	}
	driverOpts = append(driverOpts, cfg.driverOpts...)

	driver, err := react.New(cfg.provider, cfg.source, driverOpts...)
	if err != nil {
		return nil, err
	}
	return &Agent{driver: driver}, nil
}

// Ask runs the reasoning loop on question and returns its outcome. The
// result reports whether the loop finished and which pages it consulted.
func (a *Agent) Ask(ctx context.Context, question string) (*react.Result, error) {
	return a.driver.Run(ctx, question)
}
