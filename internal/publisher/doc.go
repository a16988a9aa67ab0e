// Package publisher writes event batches into the site's hand-maintained
// MANUAL_EVENTS array.
//
// The array lives inside an inline script of a static HTML page. New events
// are rendered as JavaScript object literals and appended after the existing
// entries by splicing text between the array's opening and closing tokens.
// DryRunPublisher prints the literals instead of touching the file.
package publisher
