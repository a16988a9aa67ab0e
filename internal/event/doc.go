// Package event provides the normalized event record and the logic that builds it.
//
// A collector yields Raw listings; a Normalizer turns each into an Event by
// classifying it, extracting an upcoming date from its free text, and filling
// the fixed defaults (location, time, image). Events carry a deterministic
// SHA1-based ID derived from the normalized title and URL, so the Archive can
// recognize a listing across runs and track whether it has been published.
package event
