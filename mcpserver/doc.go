// Package mcpserver exposes a profile index as Model Context Protocol tools.
//
// The server speaks MCP over stdio. Tools cover syncing and removing
// profiles, searching, fetching entries, statistics, per-profile summaries
// and agent context retrieval. Results are returned as indented JSON text.
package mcpserver
