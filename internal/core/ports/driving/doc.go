// Package driving holds the service interfaces the CLI and MCP adapters
// call into. internal/core/services implements them.
package driving
