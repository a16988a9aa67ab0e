// Package cli implements the command-line interface for dola-events.
//
// The cli package provides the Cobra root command. One invocation is one run:
// it loads configuration and the category catalog, runs the selected
// collectors, normalizes and deduplicates their output, records it in the
// archive, splices pending events into the target page and reports a summary
// as text or JSON.
package cli
