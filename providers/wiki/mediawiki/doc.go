// Package mediawiki implements [wiki.Source] against the MediaWiki Action
// API, defaulting to English Wikipedia. Summaries come from intro plaintext
// extracts, full pages from HTML extracts converted to Markdown, and
// candidate titles from full-text search. Disambiguation pages and missing
// pages are surfaced as the typed errors defined in the wiki package.
package mediawiki
