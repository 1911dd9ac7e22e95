// Package parse converts model-emitted text into typed Go values.
//
// Language models are sloppy JSON emitters: single quotes, trailing commas,
// unquoted keys, or a Markdown code fence around the payload. [ParseStringAs]
// absorbs those defects by stripping fences, attempting a strict
// json.Unmarshal, and falling back to jsonrepair before retrying.
// Primitive target types are converted directly without requiring JSON.
package parse
