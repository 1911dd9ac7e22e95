package react

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/tugaep/wikireact/providers/ai"
	"github.com/tugaep/wikireact/providers/memory/inmemory"
	"github.com/tugaep/wikireact/providers/observability"
	"github.com/tugaep/wikireact/providers/wiki"
)

// scriptedProvider replays a fixed list of assistant replies and records
// every request it receives.
type scriptedProvider struct {
	replies  []string
	requests []ai.ChatRequest
	err      error
}

func (p *scriptedProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	p.requests = append(p.requests, request)
	if p.err != nil {
		return nil, p.err
	}
	call := len(p.requests) - 1
	if call >= len(p.replies) {
		return nil, fmt.Errorf("unexpected call %d, only %d replies scripted", call+1, len(p.replies))
	}
	return &ai.ChatResponse{Content: p.replies[call]}, nil
}

func (p *scriptedProvider) WithAPIKey(string) ai.Provider           { return p }
func (p *scriptedProvider) WithBaseURL(string) ai.Provider          { return p }
func (p *scriptedProvider) WithHttpClient(*http.Client) ai.Provider { return p }

// fakeSource serves pages from a fixed map and signals not-found with
// title suggestions.
type fakeSource struct {
	pages       map[string]wiki.Page
	summaries   map[string]string
	suggestions []string
	disambig    map[string][]string
	err         error
}

func (s *fakeSource) Summary(_ context.Context, topic string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if options, ok := s.disambig[topic]; ok {
		return "", &wiki.DisambiguationError{Topic: topic, Options: options}
	}
	if summary, ok := s.summaries[topic]; ok {
		return summary, nil
	}
	return "", &wiki.NotFoundError{Topic: topic, Suggestions: s.suggestions}
}

func (s *fakeSource) Page(_ context.Context, topic string) (wiki.Page, error) {
	if s.err != nil {
		return wiki.Page{}, s.err
	}
	page, ok := s.pages[topic]
	if !ok {
		return wiki.Page{}, &wiki.NotFoundError{Topic: topic, Suggestions: s.suggestions}
	}
	return page, nil
}

func (s *fakeSource) Search(_ context.Context, _ string) ([]string, error) {
	return s.suggestions, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: map[string]wiki.Page{
			"Go (programming language)": {
				Title:    "Go (programming language)",
				URL:      "https://en.wikipedia.org/wiki/Go_(programming_language)",
				FullText: "Go is a statically typed, compiled language. It was designed at Google in 2007 by Robert Griesemer, Rob Pike, and Ken Thompson. Go 1.0 was released in March 2012.",
			},
			"Rust (programming language)": {
				Title:    "Rust (programming language)",
				URL:      "https://en.wikipedia.org/wiki/Rust_(programming_language)",
				FullText: "Rust is a general-purpose programming language. Rust 1.0 was released in May 2015.",
			},
		},
		summaries: map[string]string{
			"Go (programming language)":   "Go is a statically typed, compiled language designed at Google.",
			"Rust (programming language)": "Rust is a general-purpose programming language.",
		},
	}
}

func TestNewValidation(t *testing.T) {
	provider := &scriptedProvider{}
	source := newFakeSource()

	if _, err := New(nil, source); err == nil {
		t.Error("expected error for nil provider")
	}
	if _, err := New(provider, nil); err == nil {
		t.Error("expected error for nil source")
	}
	for _, budget := range []int{0, -1, MaxTurnBudget + 1} {
		if _, err := New(provider, source, WithTurnBudget(budget)); err == nil {
			t.Errorf("expected error for turn budget %d", budget)
		}
	}
	if _, err := New(provider, source, WithTurnBudget(MaxTurnBudget)); err != nil {
		t.Errorf("budget %d should be accepted: %v", MaxTurnBudget, err)
	}
}

func TestRunSearchLookupFinish(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Thought: I should look up the language first.\n<search>Go (programming language)</search>",
		"Thought: I need the release year.\n<lookup>released in March</lookup>",
		"Thought: I have the answer.\n<finish>2012</finish>",
	}}
	driver, err := New(provider, newFakeSource())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "When was Go 1.0 released?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Finished {
		t.Error("expected a finished run")
	}
	if result.Answer != "2012" {
		t.Errorf("answer = %q, want %q", result.Answer, "2012")
	}
	if result.Turns != 3 {
		t.Errorf("turns = %d, want 3", result.Turns)
	}
	if len(result.Searched) != 1 || result.Searched[0] != "Go (programming language)" {
		t.Errorf("searched = %v", result.Searched)
	}
	if len(result.Sources) != 1 || !strings.Contains(result.Sources[0], "wiki/Go_") {
		t.Errorf("sources = %v", result.Sources)
	}
	if result.SessionID == "" {
		t.Error("expected a non-empty session id")
	}

	// The lookup observation should be a window around the matched phrase.
	last := provider.requests[2].Messages
	observation := last[len(last)-1].Content
	if !strings.Contains(observation, "released in March 2012") {
		t.Errorf("lookup observation missing match context: %q", observation)
	}
	if !strings.Contains(observation, "<observation>") {
		t.Errorf("observation not wrapped: %q", observation)
	}
}

func TestRunFinishStopsFurtherCalls(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<finish>42</finish>",
		"<search>never reached</search>",
	}}
	driver, err := New(provider, newFakeSource())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "What is the answer?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(provider.requests) != 1 {
		t.Errorf("model called %d times after finish, want 1", len(provider.requests))
	}
	if !result.Finished || result.Answer != "42" {
		t.Errorf("result = %+v", result)
	}
}

func TestRunBudgetExhausted(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<search>Go (programming language)</search>",
		"<lookup>statically typed</lookup>",
	}}
	driver, err := New(provider, newFakeSource(), WithTurnBudget(2))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "When was Go 1.0 released?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Finished {
		t.Error("run must not report finished when the budget runs out")
	}
	if result.Answer != "" {
		t.Errorf("answer = %q, want empty", result.Answer)
	}
	if result.Turns != 2 || len(provider.requests) != 2 {
		t.Errorf("turns = %d, calls = %d, want 2 each", result.Turns, len(provider.requests))
	}
}

func TestRunCorrectiveInstruction(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Thought: I will just answer directly without any action.",
		"<finish>done</finish>",
	}}
	mem := inmemory.New()
	driver, err := New(provider, newFakeSource(), WithMemory(mem))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Finished {
		t.Error("expected the run to recover and finish")
	}
	if len(result.Searched) != 0 {
		t.Errorf("parse failure must not mutate session state, searched = %v", result.Searched)
	}

	// The second call must see the corrective instruction as the newest
	// user message.
	second := provider.requests[1].Messages
	got := second[len(second)-1]
	if got.Role != ai.RoleUser || got.Content != correctiveInstruction {
		t.Errorf("last message = %+v, want corrective instruction", got)
	}
}

func TestRunLookupBeforeSearch(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<lookup>anything</lookup>",
		"<finish>giving up</finish>",
	}}
	driver, err := New(provider, newFakeSource())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second := provider.requests[1].Messages
	observation := second[len(second)-1].Content
	if !strings.Contains(observation, noSearchObservation) {
		t.Errorf("observation = %q, want degenerate lookup notice", observation)
	}
}

func TestRunLookupPhraseAbsent(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<search>Go (programming language)</search>",
		"<lookup>garbage collector pauses</lookup>",
		"<finish>unknown</finish>",
	}}
	driver, err := New(provider, newFakeSource())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	third := provider.requests[2].Messages
	observation := third[len(third)-1].Content
	if !strings.Contains(observation, phraseNotFoundObservation) {
		t.Errorf("observation = %q, want explicit empty result", observation)
	}
}

func TestRunLookupTargetsMostRecentSearch(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<search>Go (programming language)</search>",
		"<search>Rust (programming language)</search>",
		"<lookup>1.0 was released</lookup>",
		"<finish>May 2015</finish>",
	}}
	driver, err := New(provider, newFakeSource(), WithTurnBudget(4))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "When was Rust 1.0 released?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	fourth := provider.requests[3].Messages
	observation := fourth[len(fourth)-1].Content
	if !strings.Contains(observation, "May 2015") {
		t.Errorf("lookup hit the wrong page: %q", observation)
	}
	if strings.Contains(observation, "March 2012") {
		t.Errorf("lookup must target the latest search only: %q", observation)
	}
	if len(result.Searched) != 2 || len(result.Sources) != 2 {
		t.Errorf("searched = %v, sources = %v", result.Searched, result.Sources)
	}
}

func TestRunSearchNotFound(t *testing.T) {
	source := newFakeSource()
	source.suggestions = []string{"Go (programming language)", "Go (game)"}
	provider := &scriptedProvider{replies: []string{
		"<search>Golang language</search>",
		"<finish>n/a</finish>",
	}}
	driver, err := New(provider, source)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second := provider.requests[1].Messages
	observation := second[len(second)-1].Content
	if !strings.Contains(observation, NotFoundMarker) {
		t.Errorf("observation = %q, want the not-found marker", observation)
	}
	if !strings.Contains(observation, "Go (game)") {
		t.Errorf("observation = %q, want candidate titles", observation)
	}
	if len(result.Searched) != 0 {
		t.Errorf("failed search must not be recorded, searched = %v", result.Searched)
	}
}

func TestRunSearchDisambiguation(t *testing.T) {
	source := newFakeSource()
	source.disambig = map[string][]string{
		"Mercury": {"Mercury (planet)", "Mercury (element)", "Freddie Mercury"},
	}
	provider := &scriptedProvider{replies: []string{
		"<search>Mercury</search>",
		"<finish>n/a</finish>",
	}}
	driver, err := New(provider, source)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second := provider.requests[1].Messages
	observation := second[len(second)-1].Content
	if !strings.Contains(observation, "Mercury (planet)") {
		t.Errorf("observation = %q, want disambiguation options", observation)
	}
}

func TestRunProviderErrorAborts(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	driver, err := New(provider, newFakeSource())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err == nil {
		t.Fatal("expected a transport error to abort the run")
	}
}

func TestRunStopSequenceStrippedReply(t *testing.T) {
	// A provider using the closing markers as stop sequences returns the
	// reply without the marker. The driver still parses the action and
	// stores the turn in well-formed shape.
	provider := &scriptedProvider{replies: []string{
		"Thought: search it.\n<search>Go (programming language)",
		"<finish>ok</finish>",
	}}
	mem := inmemory.New()
	driver, err := New(provider, newFakeSource(), WithMemory(mem))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Searched) != 1 {
		t.Fatalf("searched = %v, want one topic", result.Searched)
	}

	second := provider.requests[1].Messages
	var assistant string
	for _, m := range second {
		if m.Role == ai.RoleAssistant {
			assistant = m.Content
		}
	}
	if !strings.HasSuffix(assistant, "</search>") {
		t.Errorf("stored assistant turn = %q, want re-appended closing marker", assistant)
	}
}

func TestRunStopMarkersAlwaysSet(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"<finish>ok</finish>"}}
	driver, err := New(provider, newFakeSource(),
		WithGenerationConfig(ai.GenerationConfig{Temperature: 0.2, Stop: []string{"custom"}}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	cfg := provider.requests[0].GenerationConfig
	if cfg == nil {
		t.Fatal("generation config not sent")
	}
	want := []string{"</search>", "</lookup>", "</finish>"}
	if len(cfg.Stop) != len(want) {
		t.Fatalf("stop = %v, want %v", cfg.Stop, want)
	}
	for i := range want {
		if cfg.Stop[i] != want[i] {
			t.Errorf("stop[%d] = %q, want %q", i, cfg.Stop[i], want[i])
		}
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("temperature = %v, want configured value preserved", cfg.Temperature)
	}
}

func TestRunSummarizerPass(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<search>Go (programming language)</search>",
		"Go: compiled language from Google, v1.0 in 2012.",
		"<finish>2012</finish>",
	}}
	driver, err := New(provider, newFakeSource(), WithSummarizer("small-model"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	result, err := driver.Run(context.Background(), "When was Go 1.0 released?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Finished {
		t.Error("expected a finished run")
	}
	// The summarizer call is not a conversation turn.
	if result.Turns != 2 {
		t.Errorf("turns = %d, want 2", result.Turns)
	}
	if got := provider.requests[1].Model; got != "small-model" {
		t.Errorf("summarizer model = %q, want %q", got, "small-model")
	}
	third := provider.requests[2].Messages
	observation := third[len(third)-1].Content
	if !strings.Contains(observation, "v1.0 in 2012") {
		t.Errorf("observation = %q, want condensed summary", observation)
	}
}

func TestRunQuestionMessage(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"<finish>ok</finish>"}}
	driver, err := New(provider, newFakeSource(), WithModel("gpt-4o-mini"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "Who wrote Dune?"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	req := provider.requests[0]
	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", req.Model)
	}
	if req.SystemPrompt == "" {
		t.Error("expected the assembled base prompt as system prompt")
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "Question: Who wrote Dune?" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

// recordingObserver notes every span it starts. Metrics and logs are
// discarded.
type recordingObserver struct {
	spans []string
}

func (o *recordingObserver) StartSpan(ctx context.Context, name string, _ ...observability.Attribute) (context.Context, observability.Span) {
	o.spans = append(o.spans, name)
	span := recordedSpan{}
	return observability.ContextWithSpan(ctx, span), span
}

func (o *recordingObserver) Counter(string) observability.Counter     { return discardCounter{} }
func (o *recordingObserver) Histogram(string) observability.Histogram { return discardHistogram{} }

func (o *recordingObserver) Debug(context.Context, string, ...observability.Attribute) {}
func (o *recordingObserver) Info(context.Context, string, ...observability.Attribute)  {}
func (o *recordingObserver) Warn(context.Context, string, ...observability.Attribute)  {}
func (o *recordingObserver) Error(context.Context, string, ...observability.Attribute) {}

type recordedSpan struct{}

func (recordedSpan) End()                                        {}
func (recordedSpan) SetAttributes(...observability.Attribute)    {}
func (recordedSpan) SetStatus(observability.StatusCode, string)  {}
func (recordedSpan) RecordError(error)                           {}
func (recordedSpan) AddEvent(string, ...observability.Attribute) {}

type discardCounter struct{}

func (discardCounter) Add(context.Context, int64, ...observability.Attribute) {}

type discardHistogram struct{}

func (discardHistogram) Record(context.Context, float64, ...observability.Attribute) {}

func TestRunSpansPerLayer(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"<search>Go (programming language)</search>",
		"<finish>done</finish>",
	}}
	observer := &recordingObserver{}
	driver, err := New(provider, newFakeSource(), WithObserver(observer))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	counts := map[string]int{}
	for _, name := range observer.spans {
		counts[name]++
	}
	if counts[observability.SpanConversationRun] != 1 {
		t.Errorf("run spans = %d, want 1", counts[observability.SpanConversationRun])
	}
	if counts[observability.SpanModelCall] != 2 {
		t.Errorf("model call spans = %d, want one per turn", counts[observability.SpanModelCall])
	}
	if counts[observability.SpanWikiRequest] != 1 {
		t.Errorf("wiki request spans = %d, want one per search", counts[observability.SpanWikiRequest])
	}
}

func TestDecodeAnswer(t *testing.T) {
	n, err := DecodeAnswer[int](&Result{Finished: true, Answer: "1912"})
	if err != nil {
		t.Fatalf("DecodeAnswer[int] failed: %v", err)
	}
	if n != 1912 {
		t.Errorf("n = %d, want 1912", n)
	}

	type verdict struct {
		Year    int    `json:"year"`
		Country string `json:"country"`
	}
	v, err := DecodeAnswer[verdict](&Result{Finished: true, Answer: `{"year": 1912, "country": "Norway"}`})
	if err != nil {
		t.Fatalf("DecodeAnswer[verdict] failed: %v", err)
	}
	if v.Year != 1912 || v.Country != "Norway" {
		t.Errorf("v = %+v", v)
	}

	if _, err := DecodeAnswer[string](&Result{Finished: false}); err == nil {
		t.Error("expected an error for an unfinished result")
	}
	if _, err := DecodeAnswer[string](nil); err == nil {
		t.Error("expected an error for a nil result")
	}
}

func TestLookupCaseFoldingKeepsByteOffsets(t *testing.T) {
	// Lowercasing U+0130 grows it from two bytes to three, so an index
	// computed on a lowered copy of the page would drift off the match.
	// The window must still land on the phrase.
	source := newFakeSource()
	source.pages["Istanbul"] = wiki.Page{
		Title:    "Istanbul",
		URL:      "https://en.wikipedia.org/wiki/Istanbul",
		FullText: strings.Repeat("İ", 50) + " the hidden phrase sits here in the middle of the page.",
	}
	source.summaries["Istanbul"] = "İstanbul is the largest city in Turkey."

	provider := &scriptedProvider{replies: []string{
		"<search>Istanbul</search>",
		"<lookup>Hidden Phrase</lookup>",
		"<finish>done</finish>",
	}}
	driver, err := New(provider, source, WithLookupWindow(10))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	third := provider.requests[2].Messages
	observation := third[len(third)-1].Content
	if !strings.Contains(observation, "hidden phrase") {
		t.Errorf("observation = %q, want the matched phrase inside the window", observation)
	}
}

func TestFoldIndex(t *testing.T) {
	tests := []struct {
		text   string
		phrase string
		start  int
		end    int
	}{
		{"plain text match", "text", 6, 10},
		{"Case INSENSITIVE match", "insensitive", 5, 16},
		{"İİİ shifted match", "shifted", 7, 14},
		{"İstanbul is a city", "istanbul", 0, 9},
		{"no such phrase", "missing", -1, -1},
		{"anything", "", 0, 0},
	}
	for _, tt := range tests {
		start, end := foldIndex(tt.text, tt.phrase)
		if start != tt.start || end != tt.end {
			t.Errorf("foldIndex(%q, %q) = (%d, %d), want (%d, %d)",
				tt.text, tt.phrase, start, end, tt.start, tt.end)
		}
	}
}

func TestLookupWindowClampsRuneBoundaries(t *testing.T) {
	source := newFakeSource()
	source.pages["Zürich"] = wiki.Page{
		Title:    "Zürich",
		URL:      "https://en.wikipedia.org/wiki/Z%C3%BCrich",
		FullText: "üüüüü Zürich is the largest city in Switzerland üüüüü",
	}
	source.summaries["Zürich"] = "Zürich is the largest city in Switzerland."

	provider := &scriptedProvider{replies: []string{
		"<search>Zürich</search>",
		"<lookup>largest city</lookup>",
		"<finish>done</finish>",
	}}
	driver, err := New(provider, source, WithLookupWindow(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := driver.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	third := provider.requests[2].Messages
	observation := third[len(third)-1].Content
	if !strings.Contains(observation, "largest city") {
		t.Errorf("observation = %q, want the matched phrase", observation)
	}
	if strings.Contains(observation, "�") {
		t.Errorf("observation contains a broken rune: %q", observation)
	}
}
