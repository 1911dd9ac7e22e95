// Package wikireact answers factual questions by interleaving model
// reasoning with Wikipedia tool use.
//
// The model thinks in plain text and acts through a small tag grammar:
// <search>topic</search> fetches a page summary, <lookup>phrase</lookup>
// scans the current page, and <finish>answer</finish> ends the run. The
// Agent type wires an OpenAI-compatible provider and a MediaWiki client
// into the bounded reasoning loop from patterns/react:
//
//	agent, err := wikireact.New(wikireact.WithModel("gpt-4o-mini"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := agent.Ask(ctx, "When was Go 1.0 released?")
//
// Every layer is swappable: bring your own ai.Provider, wiki.Source,
// memory.Provider, or observability.Provider through the options.
package wikireact
