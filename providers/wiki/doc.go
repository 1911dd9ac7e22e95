// Package wiki defines the knowledge-source boundary used by the search and
// lookup tools: a [Source] can produce a short topic summary, the full text
// of a page, and a list of candidate titles for a query.
//
// Failure modes that tools must react to are typed: [*NotFoundError] when no
// page matches a topic and [*DisambiguationError] when a topic is ambiguous.
// Both carry alternative titles so the caller can suggest them to the model.
// Match them with errors.As.
package wiki
