// Package storage provides JSON-based persistence for the event archive.
//
// The archive is a single archive.json file holding every event ever
// collected and whether it has been published to the site yet. The default
// location is ~/.local/share/dola-events/.
package storage
