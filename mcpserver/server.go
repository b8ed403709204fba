// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mcpserver

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/search"
)

const (
	// ServerName is the MCP server name
	ServerName = "profiledb"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Engine is the part of *profiledb.Engine the tools use.
type Engine interface {
	SyncProfile(ctx context.Context, name string, p *core.Profile) ([]int, error)
	RemoveProfile(ctx context.Context, name string) (int, error)
	Compact(ctx context.Context) error
	Search(ctx context.Context, req search.Request) ([]*core.SearchResult, error)
	GetEntryWithData(ctx context.Context, id int) (*core.EntryWithData, error)
	Stats() core.Stats
	ProfileSummary(ctx context.Context, name string) (*core.ProfileSummary, error)
	AgentContext(ctx context.Context, name, agentType, taskContext string) (*core.AgentContext, error)
}

// Server wraps the MCP server around an engine.
type Server struct {
	mcp    *server.MCPServer
	engine Engine
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates an MCP server whose tools operate on engine.
func NewServer(engine Engine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		engine: engine,
		logger: slog.Default().With("component", "mcpserver"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.registerTools()
	return s, nil
}

// Serve runs the server on stdio and blocks until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP on stdio", "name", ServerName, "version", ServerVersion)
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(syncProfileTool(), s.handleSyncProfile)
	s.mcp.AddTool(searchProfileTool(), s.handleSearchProfile)
	s.mcp.AddTool(getEntryTool(), s.handleGetEntry)
	s.mcp.AddTool(dbStatsTool(), s.handleDBStats)
	s.mcp.AddTool(profileSummaryTool(), s.handleProfileSummary)
	s.mcp.AddTool(agentContextTool(), s.handleAgentContext)
	s.mcp.AddTool(removeProfileTool(), s.handleRemoveProfile)
	s.mcp.AddTool(compactIndexTool(), s.handleCompactIndex)
}
