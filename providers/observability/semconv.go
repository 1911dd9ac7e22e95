package observability

// Span names.
const (
	// SpanConversationRun covers a full Run of the conversation driver,
	// from the first model call to finish or budget exhaustion.
	SpanConversationRun = "react.run"
	// SpanModelCall covers a single provider round trip.
	SpanModelCall = "ai.send_message"
	// SpanWikiRequest covers a single knowledge-source API call.
	SpanWikiRequest = "wiki.request"
)

// Event names.
const (
	EventTurnStart         = "react.turn.start"
	EventActionParsed      = "react.action.parsed"
	EventActionParseFailed = "react.action.parse_failed"
	EventToolDispatchStart = "react.tool.dispatch.start"
	EventToolDispatchEnd   = "react.tool.dispatch.end"
	EventFinish            = "react.finish"

	EventMemoryAppend = "memory.append"
	EventMemoryClear  = "memory.clear"

	EventHTTPRequestPrepared = "http.request.prepared"
	EventHTTPRequestError    = "http.request.error"
	EventHTTPResponse        = "http.response.received"
)

// Attribute keys.
const (
	AttrSessionID         = "react.session.id"
	AttrTurn              = "react.turn"
	AttrTurnBudget        = "react.turn.budget"
	AttrQuestion          = "react.question"
	AttrActionKind        = "react.action.kind"
	AttrActionArgument    = "react.action.argument"
	AttrObservationLength = "react.observation.length"
	AttrFinished          = "react.finished"
	AttrAnswer            = "react.answer"

	AttrModel        = "ai.model"
	AttrFinishReason = "ai.finish_reason"

	AttrStatus            = "status"
	AttrStatusDescription = "status.description"

	AttrWikiTopic      = "wiki.topic"
	AttrWikiURL        = "wiki.url"
	AttrWikiCandidates = "wiki.candidates"
	AttrWikiErrorKind  = "wiki.error.kind"
	AttrWikiTextLength = "wiki.text.length"

	AttrMemoryMessageRole   = "memory.message.role"
	AttrMemoryMessageLength = "memory.message.length"
	AttrMemoryTotalMessages = "memory.total_messages"

	AttrHTTPMethod           = "http.method"
	AttrHTTPURL              = "http.url"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPRequestBodySize  = "http.request.body_size"
	AttrHTTPResponseBodySize = "http.response.body_size"
	AttrHTTPDuration         = "http.request.duration"
)

// Metric names.
const (
	MetricTurnsTotal        = "react.turns.total"
	MetricParseFailures     = "react.action.parse_failures.total"
	MetricToolDispatches    = "react.tool.dispatches.total"
	MetricRunDurationMillis = "react.run.duration_ms"
)
