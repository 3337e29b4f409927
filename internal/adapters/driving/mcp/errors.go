// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the store. It enables AI assistants like Claude to search, ingest and
// summarise personal documents.
package mcp

import "errors"

// Required-port errors returned by Ports.Validate.
var (
	ErrMissingSearchService = errors.New("mcp: search service is required")
	ErrMissingIngestService = errors.New("mcp: ingest service is required")
)
