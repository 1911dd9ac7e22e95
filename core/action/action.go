package action

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the three recognized actions.
type Kind int

const (
	// KindSearch asks the knowledge source for a topic summary.
	KindSearch Kind = iota
	// KindLookup scans the most recently searched page for a phrase.
	KindLookup
	// KindFinish ends the conversation with a final answer.
	KindFinish
)

// kinds enumerates all recognized kinds in parse-priority order.
var kinds = [...]Kind{KindSearch, KindLookup, KindFinish}

// String returns the wire name of the kind, as used inside the markers.
func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindLookup:
		return "lookup"
	case KindFinish:
		return "finish"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// OpenMarker returns the literal opening marker for the kind, e.g. "<search>".
func (k Kind) OpenMarker() string { return "<" + k.String() + ">" }

// CloseMarker returns the literal closing marker for the kind, e.g. "</search>".
func (k Kind) CloseMarker() string { return "</" + k.String() + ">" }

// Action is a tagged value parsed fresh from each model reply.
type Action struct {
	Kind     Kind
	Argument string
}

// Wire returns the action in its wire form, e.g. "<search>Paris</search>".
func (a Action) Wire() string {
	return a.Kind.OpenMarker() + a.Argument + a.Kind.CloseMarker()
}

// ErrNoAction is returned by Parse when the reply contains no recognized
// opening marker.
var ErrNoAction = errors.New("no recognized action marker in reply")

// StopMarkers returns the three closing markers. Passing them as stop
// sequences makes the model halt right after emitting an action, so the
// driver never reads past the first action of a turn.
func StopMarkers() []string {
	markers := make([]string, 0, len(kinds))
	for _, k := range kinds {
		markers = append(markers, k.CloseMarker())
	}
	return markers
}

// Truncate cuts reply at the first occurrence of any recognized closing
// marker, keeping the marker itself. Replies without a closing marker are
// returned unchanged.
func Truncate(reply string) string {
	cut := len(reply)
	for _, k := range kinds {
		if idx := strings.Index(reply, k.CloseMarker()); idx >= 0 && idx+len(k.CloseMarker()) < cut {
			cut = idx + len(k.CloseMarker())
		}
	}
	return reply[:cut]
}

// Parse extracts the first action from reply. The reply is first truncated at
// the earliest closing marker; the action is the earliest opening marker
// before that point. When the opening marker has no matching closing marker
// (a provider consumed it as a stop sequence), the remainder of the reply
// becomes the argument. Returns ErrNoAction when no opening marker exists.
func Parse(reply string) (Action, error) {
	reply = Truncate(reply)

	best := -1
	var bestKind Kind
	for _, k := range kinds {
		if idx := strings.Index(reply, k.OpenMarker()); idx >= 0 && (best < 0 || idx < best) {
			best = idx
			bestKind = k
		}
	}
	if best < 0 {
		return Action{}, ErrNoAction
	}

	arg := reply[best+len(bestKind.OpenMarker()):]
	if idx := strings.Index(arg, bestKind.CloseMarker()); idx >= 0 {
		arg = arg[:idx]
	}

	return Action{Kind: bestKind, Argument: strings.TrimSpace(arg)}, nil
}
