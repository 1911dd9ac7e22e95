package react

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tugaep/wikireact/core/action"
	"github.com/tugaep/wikireact/core/parse"
	"github.com/tugaep/wikireact/core/prompt"
	"github.com/tugaep/wikireact/providers/ai"
	"github.com/tugaep/wikireact/providers/memory"
	"github.com/tugaep/wikireact/providers/memory/inmemory"
	"github.com/tugaep/wikireact/providers/observability"
	"github.com/tugaep/wikireact/providers/wiki"
)

const (
	// NotFoundMarker prefixes the observation returned when a search topic
	// has no matching page. Tests and prompt examples rely on the literal.
	NotFoundMarker = "Could not find"

	// correctiveInstruction replaces the observation when a reply carries no
	// recognized action. Session state is not advanced in that case.
	correctiveInstruction = "Your last reply did not contain a valid action. Reply with exactly one action wrapped as <search>topic</search>, <lookup>phrase</lookup>, or <finish>answer</finish>."

	// noSearchObservation is the degenerate lookup result before any
	// successful search.
	noSearchObservation = "No page has been searched yet. Use <search>topic</search> first."

	// phraseNotFoundObservation is the lookup result for an absent phrase.
	phraseNotFoundObservation = "Phrase not found in the current page."

	summarizerSystemPrompt = "Condense the following encyclopedia excerpt into at most two sentences, keeping names, dates, and figures intact. Reply with the condensed text only."
)

// Driver runs the bounded Thought/Action/Observation loop. It owns one
// conversation at a time; Run is not safe for concurrent use on the same
// Driver when a shared memory provider is configured.
type Driver struct {
	provider ai.Provider
	source   wiki.Source
	memory   memory.Provider
	observer observability.Provider

	assembler  *prompt.Assembler
	promptFile string

	model           string
	generation      ai.GenerationConfig
	maxTurns        int
	lookupWindow    int
	summarizerModel string
}

// Result is the outcome of one Run.
type Result struct {
	SessionID string
	Answer    string   // final answer; empty unless Finished
	Finished  bool     // true when the model emitted a finish action
	Turns     int      // model calls actually made
	Searched  []string // successfully searched topics, in order
	Sources   []string // page URLs parallel to Searched
}

// New creates a Driver for the given model provider and knowledge source.
// The turn budget defaults to DefaultTurnBudget and must stay within
// [1, MaxTurnBudget].
func New(provider ai.Provider, source wiki.Source, opts ...Option) (*Driver, error) {
	if provider == nil {
		return nil, errors.New("react: provider is required")
	}
	if source == nil {
		return nil, errors.New("react: knowledge source is required")
	}

	d := &Driver{
		provider:     provider,
		source:       source,
		assembler:    prompt.Default(),
		maxTurns:     DefaultTurnBudget,
		lookupWindow: DefaultLookupWindow,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.maxTurns <= 0 {
		return nil, fmt.Errorf("react: turn budget must be positive, got %d", d.maxTurns)
	}
	if d.maxTurns > MaxTurnBudget {
		return nil, fmt.Errorf("react: turn budget %d exceeds maximum %d", d.maxTurns, MaxTurnBudget)
	}
	if d.memory == nil {
		d.memory = inmemory.New()
	}
	return d, nil
}

// Run answers question by looping up to the turn budget. It returns early
// when the model emits a finish action. Exhausting the budget without a
// finish is not an error: the Result comes back with Finished=false.
// Transport failures from the provider or the knowledge source abort the run.
func (d *Driver) Run(ctx context.Context, question string) (*Result, error) {
	basePrompt, err := d.assembler.Resolve(d.promptFile)
	if err != nil {
		return nil, fmt.Errorf("react: resolving prompt: %w", err)
	}

	sess := newSession()
	start := time.Now()

	var span observability.Span
	if d.observer != nil {
		ctx, span = d.observer.StartSpan(ctx, observability.SpanConversationRun,
			observability.String(observability.AttrSessionID, sess.id),
			observability.Int(observability.AttrTurnBudget, d.maxTurns),
			observability.String(observability.AttrQuestion, question),
		)
		defer span.End()
	}

	d.memory.ClearMessages(ctx)
	d.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: "Question: " + question})

	turns := 0
	for turns < d.maxTurns && sess.running {
		turns++
		if span != nil {
			span.AddEvent(observability.EventTurnStart, observability.Int(observability.AttrTurn, turns))
		}
		if d.observer != nil {
			d.observer.Counter(observability.MetricTurnsTotal).Add(ctx, 1)
		}

		messages, err := d.memory.AllMessages(ctx)
		if err != nil {
			return nil, fmt.Errorf("react: reading history on turn %d: %w", turns, err)
		}

		callCtx := ctx
		var callSpan observability.Span
		if d.observer != nil {
			callCtx, callSpan = d.observer.StartSpan(ctx, observability.SpanModelCall,
				observability.String(observability.AttrModel, d.model),
				observability.Int(observability.AttrTurn, turns),
			)
		}
		resp, err := d.provider.SendMessage(callCtx, ai.ChatRequest{
			Model:            d.model,
			SystemPrompt:     basePrompt,
			Messages:         messages,
			GenerationConfig: d.generationConfig(),
		})
		if callSpan != nil {
			if err != nil {
				callSpan.RecordError(err)
			} else {
				callSpan.SetAttributes(observability.String(observability.AttrFinishReason, resp.FinishReason))
			}
			callSpan.End()
		}
		if err != nil {
			if span != nil {
				span.RecordError(err)
			}
			return nil, fmt.Errorf("react: model call on turn %d: %w", turns, err)
		}

		act, parseErr := action.Parse(resp.Content)
		if parseErr != nil {
			// No recognized action: substitute the corrective instruction
			// and leave session state untouched.
			if span != nil {
				span.AddEvent(observability.EventActionParseFailed, observability.Int(observability.AttrTurn, turns))
			}
			if d.observer != nil {
				d.observer.Counter(observability.MetricParseFailures).Add(ctx, 1)
			}
			d.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleAssistant, Content: resp.Content})
			d.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: correctiveInstruction})
			continue
		}

		if span != nil {
			span.AddEvent(observability.EventActionParsed,
				observability.String(observability.AttrActionKind, act.Kind.String()),
				observability.String(observability.AttrActionArgument, act.Argument),
			)
		}

		d.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleAssistant, Content: normalizeReply(resp.Content, act)})

		observation, err := d.dispatch(ctx, sess, act)
		if err != nil {
			if span != nil {
				span.RecordError(err)
			}
			return nil, fmt.Errorf("react: dispatching %s on turn %d: %w", act.Kind, turns, err)
		}

		// A dispatched finish clears the continuation flag; there is no
		// observation to feed back and no further model call happens.
		if !sess.running {
			break
		}

		d.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: observationMessage(act, observation)})
	}

	result := &Result{
		SessionID: sess.id,
		Answer:    sess.answer,
		Finished:  !sess.running,
		Turns:     turns,
		Searched:  append([]string(nil), sess.searched...),
		Sources:   append([]string(nil), sess.sources...),
	}

	if span != nil {
		span.SetAttributes(
			observability.Bool(observability.AttrFinished, result.Finished),
			observability.String(observability.AttrAnswer, result.Answer),
			observability.Int(observability.AttrTurn, result.Turns),
		)
	}
	if d.observer != nil {
		d.observer.Histogram(observability.MetricRunDurationMillis).Record(ctx, float64(time.Since(start).Milliseconds()))
	}
	return result, nil
}

// dispatch routes a parsed action to its handler. The action kinds are a
// closed set; an unknown kind can only come from a Parse bug.
func (d *Driver) dispatch(ctx context.Context, sess *session, act action.Action) (observation string, err error) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventToolDispatchStart,
			observability.String(observability.AttrActionKind, act.Kind.String()))
		defer func() {
			span.AddEvent(observability.EventToolDispatchEnd,
				observability.String(observability.AttrActionKind, act.Kind.String()),
				observability.Int(observability.AttrObservationLength, len(observation)),
			)
		}()
	}
	if d.observer != nil {
		d.observer.Counter(observability.MetricToolDispatches).Add(ctx,
			1, observability.String(observability.AttrActionKind, act.Kind.String()))
	}

	switch act.Kind {
	case action.KindSearch:
		searchCtx := ctx
		var wikiSpan observability.Span
		if d.observer != nil {
			searchCtx, wikiSpan = d.observer.StartSpan(ctx, observability.SpanWikiRequest,
				observability.String(observability.AttrWikiTopic, act.Argument))
		}
		observation, err = d.search(searchCtx, sess, act.Argument)
		if wikiSpan != nil {
			if err != nil {
				wikiSpan.RecordError(err)
			}
			wikiSpan.End()
		}
		return observation, err
	case action.KindLookup:
		return d.lookup(sess, act.Argument), nil
	case action.KindFinish:
		sess.finish(act.Argument)
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventFinish, observability.String(observability.AttrAnswer, act.Argument))
		}
		return "", nil
	default:
		return "", fmt.Errorf("unhandled action kind %v", act.Kind)
	}
}

// search queries the knowledge source for topic. Ambiguity and not-found are
// recovered locally with a suggestion observation; transport errors abort.
func (d *Driver) search(ctx context.Context, sess *session, topic string) (string, error) {
	summary, err := d.source.Summary(ctx, topic)
	if err != nil {
		var notFound *wiki.NotFoundError
		var disambig *wiki.DisambiguationError
		switch {
		case errors.As(err, &notFound):
			recordWikiFailure(ctx, "not_found", notFound.Suggestions)
			return notFoundObservation(topic, notFound.Suggestions), nil
		case errors.As(err, &disambig):
			recordWikiFailure(ctx, "disambiguation", disambig.Options)
			return notFoundObservation(topic, disambig.Options), nil
		default:
			return "", err
		}
	}

	page, err := d.source.Page(ctx, topic)
	if err != nil {
		return "", err
	}
	sess.recordSearch(topic, page)

	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrWikiTopic, topic),
			observability.String(observability.AttrWikiURL, page.URL),
			observability.Int(observability.AttrWikiTextLength, len(page.FullText)),
		)
	}

	if d.summarizerModel != "" {
		if condensed, err := d.summarize(ctx, summary); err == nil && condensed != "" {
			return condensed, nil
		} else if err != nil && d.observer != nil {
			// Summarization is best-effort; fall back to the raw summary.
			d.observer.Warn(ctx, "summarizer call failed", observability.Error(err))
		}
	}
	return summary, nil
}

// lookup scans the most recently searched page for phrase, returning a
// window of surrounding text. An absent phrase yields an explicit empty
// result rather than a slice into nowhere.
func (d *Driver) lookup(sess *session, phrase string) string {
	if !sess.hasPage {
		return noSearchObservation
	}

	text := sess.page.FullText
	matchStart, matchEnd := foldIndex(text, phrase)
	if matchStart < 0 {
		return phraseNotFoundObservation
	}

	start := matchStart - d.lookupWindow
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := matchEnd + d.lookupWindow
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return strings.TrimSpace(text[start:end])
}

// foldIndex returns the byte range [start, end) of the first
// case-insensitive match of phrase in text, or (-1, -1) when absent. The
// scan compares rune by rune, so the offsets always index the original
// text even for runes whose case mapping changes their encoded length.
func foldIndex(text, phrase string) (int, int) {
	if phrase == "" {
		return 0, 0
	}
	for i := 0; i < len(text); {
		if n, ok := foldPrefixLen(text[i:], phrase); ok {
			return i, i + n
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, -1
}

// foldPrefixLen reports whether s begins with a case-insensitive match of
// phrase and returns the length of the matched prefix in bytes of s.
func foldPrefixLen(s, phrase string) (int, bool) {
	i := 0
	for _, pr := range phrase {
		r, size := utf8.DecodeRuneInString(s[i:])
		if size == 0 {
			return 0, false
		}
		if r != pr && unicode.ToLower(r) != unicode.ToLower(pr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// recordWikiFailure tags the active span with the recoverable failure kind
// and how many candidate topics the observation will suggest.
func recordWikiFailure(ctx context.Context, kind string, candidates []string) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrWikiErrorKind, kind),
			observability.Int(observability.AttrWikiCandidates, len(candidates)),
		)
	}
}

// summarize runs the optional second model call that condenses a search
// summary before it becomes an observation.
func (d *Driver) summarize(ctx context.Context, text string) (string, error) {
	resp, err := d.provider.SendMessage(ctx, ai.ChatRequest{
		Model:        d.summarizerModel,
		SystemPrompt: summarizerSystemPrompt,
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: text}},
		GenerationConfig: &ai.GenerationConfig{
			MaxTokens: 160,
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// generationConfig merges the configured sampling parameters with the action
// grammar's stop markers, which the driver always enforces.
func (d *Driver) generationConfig() *ai.GenerationConfig {
	cfg := d.generation
	cfg.Stop = action.StopMarkers()
	return &cfg
}

// normalizeReply stores the assistant turn in well-formed wire shape: the
// reply truncated at the action's closing marker, re-appending the marker
// when the provider consumed it as a stop sequence.
func normalizeReply(content string, act action.Action) string {
	truncated := strings.TrimSpace(action.Truncate(content))
	if !strings.HasSuffix(truncated, act.Kind.CloseMarker()) {
		truncated += act.Kind.CloseMarker()
	}
	return truncated
}

// observationMessage wraps the dispatched action and its observation in the
// fixed textual template that forms the next turn's input.
func observationMessage(act action.Action, observation string) string {
	return fmt.Sprintf("After %s:\n<observation>%s</observation>", act.Wire(), observation)
}

// notFoundObservation is the fixed-format failure message for a search that
// matched no page, listing alternative candidate topics.
func notFoundObservation(topic string, candidates []string) string {
	if len(candidates) == 0 {
		return fmt.Sprintf("%s %q. No similar topics were found.", NotFoundMarker, topic)
	}
	return fmt.Sprintf("%s %q. Similar: %s.", NotFoundMarker, topic, strings.Join(candidates, "; "))
}

// DecodeAnswer parses the final answer of a finished Result into T, leaning
// on the lenient core/parse decoding. It fails when the run never finished.
func DecodeAnswer[T any](r *Result) (T, error) {
	var zero T
	if r == nil || !r.Finished {
		return zero, errors.New("react: no final answer to decode")
	}
	return parse.ParseStringAs[T](r.Answer)
}
