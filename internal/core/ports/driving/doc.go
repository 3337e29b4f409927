// Package driving provides interfaces for use-case entry points (primary/inbound ports).
// The HTTP, MCP, CLI and watcher adapters depend on these, never on the
// service implementations directly.
package driving
