// Package react implements the ReAct (Reason + Act) conversation loop over a
// Wikipedia-style knowledge source. The model is primed to interleave
// Thought/Action/Observation steps; the [Driver] sends the accumulated
// conversation to an [ai.Provider], parses each reply for one action
// (search, lookup, or finish), dispatches it against a [wiki.Source], and
// feeds the observation back as the next turn's input.
//
// The loop is bounded by a turn budget and stops early when the model emits
// a finish action. A reply without a recognized action consumes a turn but
// leaves the session state untouched; the driver substitutes a fixed
// corrective instruction instead.
//
// Use [New] to construct a Driver and [Driver.Run] to answer a question.
package react
