// Package services implements the driving port interfaces.
// Services contain the client-side logic and orchestrate
// calls to driven ports (adapters).
//
// Services that hold session state (review drafts, chat history, the chunk
// editor) guard it with a mutex; the CLI, TUI and MCP server may call them
// from different goroutines.
package services
