// Package prompt assembles the instruction text and few-shot examples that
// prime the model for the search/lookup/finish action grammar.
//
// An [Assembler] concatenates its parts deterministically, can persist the
// result to a flat text file, and can resolve a prompt from such a file when
// one exists. [DefaultInstructions] and [DefaultExamples] carry a ready-made
// Wikipedia question-answering prompt.
package prompt
