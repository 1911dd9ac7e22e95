package react

import (
	"github.com/google/uuid"

	"github.com/tugaep/wikireact/providers/wiki"
)

// session is the per-Run mutable state. It is owned by exactly one Run
// invocation and never shared across goroutines.
type session struct {
	id       string
	searched []string  // topics of successful searches, in order
	sources  []string  // parallel list of page URLs for searched
	page     wiki.Page // most recently searched page, target of lookup
	hasPage  bool
	running  bool
	answer   string
}

func newSession() *session {
	return &session{
		id:      uuid.NewString(),
		running: true,
	}
}

// recordSearch registers a successful search: the topic and its source URL
// are appended and the page becomes the lookup target.
func (s *session) recordSearch(topic string, page wiki.Page) {
	s.searched = append(s.searched, topic)
	s.sources = append(s.sources, page.URL)
	s.page = page
	s.hasPage = true
}

// finish records the final answer and clears the continuation flag.
func (s *session) finish(answer string) {
	s.answer = answer
	s.running = false
}
