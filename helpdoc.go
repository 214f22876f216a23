// Package helpdoc crawls a help-center site to a shallow depth, extracts
// the textual content of each page as bounded-size chunks, and rephrases
// those chunks with a language model into a flat, cleaned corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, openai/).
package helpdoc
