// Package socket implements a JSON-over-Unix-socket protocol for the refmap daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/drew/refmap/internal/ports"
)

// SocketPath returns the Unix socket path for a given corpus root.
// Format: /tmp/refmap-{first8hex}.sock
func SocketPath(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/refmap-%x.sock", h[:4])
}

// Method names for the protocol.
const (
	MethodSearch    = "search"
	MethodAutoMatch = "automatch"
	MethodPaths     = "paths"
	MethodReindex   = "reindex"
	MethodHealth    = "health"
	MethodStats     = "stats"
	MethodShutdown  = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SearchParams is the params for a search request.
type SearchParams struct {
	Term string `json:"term"`
	// Limit truncates the ranked result list. Zero keeps the server default.
	Limit int `json:"limit,omitempty"`
	// IncludeUsed disables the committed-mapping exclusion.
	IncludeUsed bool `json:"include_used,omitempty"`
}

// SearchResult is the result of a search request.
type SearchResult struct {
	Matches []ports.RankedMatch `json:"matches"`
	Count   int                 `json:"count"`
	Elapsed string              `json:"elapsed"`
}

// AutoMatchParams is the params for an automatch request. The reference
// list travels with the request; the path pool and exclusions are the
// daemon's current view.
type AutoMatchParams struct {
	References []ports.Reference `json:"references"`
}

// AutoMatchResult is the result of an automatch request (wire format).
type AutoMatchResult struct {
	Suggestions []ports.Suggestion `json:"suggestions"`
	High        int                `json:"high"`
	Medium      int                `json:"medium"`
	Low         int                `json:"low"`
	Elapsed     string             `json:"elapsed"`
}

// PathsParams is the params for a paths request.
type PathsParams struct {
	// Filter keeps only paths containing the substring, case-insensitive.
	// Empty means all paths.
	Filter string `json:"filter,omitempty"`
	// IncludeUsed lists paths claimed by committed mappings as well.
	IncludeUsed bool `json:"include_used,omitempty"`
}

// PathsResult is the result of a paths request.
type PathsResult struct {
	Paths []string `json:"paths"`
	Count int      `json:"count"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status     string `json:"status"`
	PathCount  int    `json:"path_count"`
	TokenCount int    `json:"token_count"`
	Uptime     string `json:"uptime"`
}

// StatsResult is the result of a stats request.
type StatsResult struct {
	Root           string `json:"root"`
	Fingerprint    string `json:"fingerprint"`
	PathCount      int    `json:"path_count"`
	TokenCount     int    `json:"token_count"`
	ReferenceCount int    `json:"reference_count"`
	MappingCount   int    `json:"mapping_count"`
	Rebuilds       int    `json:"rebuilds"`
	Uptime         string `json:"uptime"`
}

// ReindexResult is the result of a reindex request.
type ReindexResult struct {
	PathCount   int    `json:"path_count"`
	TokenCount  int    `json:"token_count"`
	Fingerprint string `json:"fingerprint"`
	ElapsedMs   int64  `json:"elapsed_ms"`
}
