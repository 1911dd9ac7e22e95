package react

import (
	"github.com/tugaep/wikireact/core/prompt"
	"github.com/tugaep/wikireact/providers/ai"
	"github.com/tugaep/wikireact/providers/memory"
	"github.com/tugaep/wikireact/providers/observability"
)

const (
	// DefaultTurnBudget is the number of model calls a Run may make unless
	// configured otherwise.
	DefaultTurnBudget = 5
	// MaxTurnBudget is the upper bound accepted by WithTurnBudget. The loop
	// is a demo-scale construct; budgets beyond this are a configuration
	// mistake, not a use case.
	MaxTurnBudget = 8
	// DefaultLookupWindow is the number of characters returned on each side
	// of a lookup match.
	DefaultLookupWindow = 200
)

// Option configures a Driver.
type Option func(*Driver)

// WithTurnBudget sets the maximum number of model-call/tool-call cycles per
// Run. New rejects budgets outside [1, MaxTurnBudget].
func WithTurnBudget(n int) Option {
	return func(d *Driver) { d.maxTurns = n }
}

// WithModel selects the model identifier passed to the provider.
func WithModel(model string) Option {
	return func(d *Driver) { d.model = model }
}

// WithMemory replaces the default in-memory conversation store.
func WithMemory(m memory.Provider) Option {
	return func(d *Driver) { d.memory = m }
}

// WithObserver attaches an observability provider. Without one the driver
// runs silent.
func WithObserver(observer observability.Provider) Option {
	return func(d *Driver) { d.observer = observer }
}

// WithPromptAssembler replaces the default instruction/few-shot assembler.
func WithPromptAssembler(a *prompt.Assembler) Option {
	return func(d *Driver) { d.assembler = a }
}

// WithPromptFile persists the assembled prompt at path and reloads it from
// there on later runs (see [prompt.Assembler.Resolve]).
func WithPromptFile(path string) Option {
	return func(d *Driver) { d.promptFile = path }
}

// WithGenerationConfig sets sampling parameters for every model call. The
// driver always overrides the stop sequences with the action grammar's
// closing markers.
func WithGenerationConfig(cfg ai.GenerationConfig) Option {
	return func(d *Driver) { d.generation = cfg }
}

// WithLookupWindow sets how many characters around a lookup match are
// returned. Non-positive values fall back to DefaultLookupWindow.
func WithLookupWindow(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.lookupWindow = n
		}
	}
}

// WithSummarizer enables a second model call per successful search that
// condenses the raw summary before it becomes the observation. The given
// model may differ from the conversation model; an empty string disables
// the pass.
func WithSummarizer(model string) Option {
	return func(d *Driver) { d.summarizerModel = model }
}
