// Package action defines the textual action grammar the conversation driver
// expects in model replies: exactly one action wrapped as <search>topic</search>,
// <lookup>phrase</lookup>, or <finish>answer</finish>.
//
// Actions are a closed, tagged variant ([Kind]); dispatch is a plain switch
// rather than any dynamic name-to-handler resolution. [Parse] extracts the
// first well-formed action from a reply, tolerating a missing closing marker
// for providers that strip matched stop sequences from the generation.
package action
