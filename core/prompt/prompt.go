package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultInstructions primes the model for the tag-based action grammar.
const DefaultInstructions = `Answer the question by interleaving Thought, Action, and Observation steps.
Thought reasons about the current situation. Action is exactly one of:

<search>topic</search>      look up a topic on Wikipedia and read a short summary
<lookup>phrase</lookup>     find the next mention of a phrase in the current page
<finish>answer</finish>     end the conversation and return the final answer

After each action you will receive an <observation> with the result. Emit
exactly one action per reply and nothing after it.`

// DefaultExamples are few-shot transcripts demonstrating the grammar.
var DefaultExamples = []string{
	`Question: What is the elevation range for the area that the eastern sector of the Colorado orogeny extends into?
Thought: I need to search Colorado orogeny and find the area the eastern sector extends into.
<search>Colorado orogeny</search>
<observation>The Colorado orogeny was an episode of mountain building (an orogeny) in Colorado and surrounding areas.</observation>
Thought: It does not mention the eastern sector, so I will look it up in the page.
<lookup>eastern sector</lookup>
<observation>The eastern sector extends into the High Plains and is called the Central Plains orogeny.</observation>
Thought: The eastern sector extends into the High Plains. I need the elevation range of the High Plains.
<search>High Plains (United States)</search>
<observation>The High Plains are a subregion of the Great Plains, rising from around 1,800 to 7,000 ft (550 to 2,130 m).</observation>
Thought: The answer is 1,800 to 7,000 ft.
<finish>1,800 to 7,000 ft</finish>`,

	`Question: Which magazine was started first, Arthur's Magazine or First for Women?
Thought: I should search both magazines and compare their start dates.
<search>Arthur's Magazine</search>
<observation>Arthur's Magazine (1844-1846) was an American literary periodical published in Philadelphia in the 19th century.</observation>
Thought: Arthur's Magazine started in 1844. Now First for Women.
<search>First for Women</search>
<observation>First for Women is a woman's magazine published by Bauer Media Group in the USA. The magazine was started in 1989.</observation>
Thought: 1844 is earlier than 1989, so Arthur's Magazine was started first.
<finish>Arthur's Magazine</finish>`,
}

// partSeparator joins instructions and examples in the rendered prompt.
const partSeparator = "\n\n"

// Assembler concatenates static instructions and few-shot examples into one
// prompt text.
type Assembler struct {
	instructions string
	examples     []string
}

// New creates an Assembler from instruction text and optional examples.
func New(instructions string, examples ...string) *Assembler {
	return &Assembler{
		instructions: instructions,
		examples:     examples,
	}
}

// Default returns an Assembler preloaded with [DefaultInstructions] and
// [DefaultExamples].
func Default() *Assembler {
	return New(DefaultInstructions, DefaultExamples...)
}

// Render concatenates instructions and examples into the final prompt text.
// Rendering is deterministic: the same Assembler always yields the same string.
func (a *Assembler) Render() string {
	parts := make([]string, 0, len(a.examples)+1)
	if a.instructions != "" {
		parts = append(parts, a.instructions)
	}
	parts = append(parts, a.examples...)
	return strings.Join(parts, partSeparator)
}

// Save writes the rendered prompt to path.
func (a *Assembler) Save(path string) error {
	if err := os.WriteFile(path, []byte(a.Render()), 0o644); err != nil {
		return fmt.Errorf("saving prompt to %s: %w", path, err)
	}
	return nil
}

// Load reads a previously persisted prompt from path.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loading prompt from %s: %w", path, err)
	}
	return string(data), nil
}

// Resolve returns the prompt text for a session. When path is empty the
// prompt is rendered in memory. When the file at path exists its contents are
// used verbatim; otherwise the rendered prompt is written there first, so
// later sessions pick up any manual edits to the file.
func (a *Assembler) Resolve(path string) (string, error) {
	if path == "" {
		return a.Render(), nil
	}
	text, err := Load(path)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := a.Save(path); err != nil {
		return "", err
	}
	return a.Render(), nil
}
