package core

import "fmt"

// ClientInfo identifies this library to the server.
type ClientInfo struct {
	Name    string `validate:"required"`
	Version string `validate:"required"`
}

// Qualified returns the identification string, e.g. "Meilisearch Go (v0.1.0)".
func (i ClientInfo) Qualified() string {
	return fmt.Sprintf("%s (v%s)", i.Name, i.Version)
}

// DefaultClientInfo is the identification sent when no other is configured.
// It is read-only after program start.
var DefaultClientInfo = ClientInfo{Name: "Meilisearch Go", Version: "0.1.0"}
