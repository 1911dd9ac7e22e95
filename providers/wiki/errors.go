package wiki

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no page exists for the requested topic.
// Suggestions carries similar titles when the source offered any.
type NotFoundError struct {
	Topic       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("page %q not found", e.Topic)
	}
	return fmt.Sprintf("page %q not found (similar: %s)", e.Topic, strings.Join(e.Suggestions, ", "))
}

// DisambiguationError reports that the topic matched a disambiguation page
// rather than an article. Options lists the candidate titles.
type DisambiguationError struct {
	Topic   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	if len(e.Options) == 0 {
		return fmt.Sprintf("topic %q is ambiguous", e.Topic)
	}
	return fmt.Sprintf("topic %q is ambiguous (options: %s)", e.Topic, strings.Join(e.Options, ", "))
}
