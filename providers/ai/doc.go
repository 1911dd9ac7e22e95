// Package ai defines the model API boundary: the [Provider] interface every
// LLM backend implements, plus the request/response types exchanged with it.
//
// The conversation driver relies on stop sequences ([GenerationConfig.Stop])
// to halt generation at the first closing action marker; providers must honor
// them when the backend supports it. Tool dispatch in wikireact is textual,
// so there are no structured tool-call fields here.
package ai
