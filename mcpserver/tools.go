package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/poiesic/profiledb"
	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/search"
)

const maxTopK = 50

// handleSyncProfile handles the sync_profile tool invocation
func (s *Server) handleSyncProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "profile_name")
	if err != nil {
		return nil, err
	}

	raw, ok := args["profile"]
	if !ok || raw == nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "profile parameter is required", map[string]any{
			"param":  "profile",
			"reason": "missing",
		})
	}
	profile, err := decodeProfile(raw)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid profile", map[string]any{
			"param":  "profile",
			"reason": err.Error(),
		})
	}

	ids, err := s.engine.SyncProfile(ctx, name, profile)
	if err != nil {
		if errors.Is(err, core.ErrInvalidProfile) || errors.Is(err, core.ErrEmptyProfileName) {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid profile", map[string]any{"error": err.Error()})
		}
		s.logger.Error("sync_profile failed", "profile", name, "err", err)
		return nil, newMCPError(ErrorCodeInternalError, "sync failed", map[string]any{"error": err.Error()})
	}

	return mcp.NewToolResultText(formatJSON(map[string]any{
		"profile_name": name,
		"entry_ids":    ids,
		"entries":      len(ids),
	})), nil
}

// handleSearchProfile handles the search_profile tool invocation
func (s *Server) handleSearchProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	query, err := requireString(args, "query")
	if err != nil {
		return nil, err
	}

	topK := getIntDefault(args, "top_k", search.DefaultTopK)
	if topK < 1 || topK > maxTopK {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("top_k must be between 1 and %d", maxTopK), map[string]any{
			"param": "top_k",
			"value": topK,
		})
	}

	// Unknown modes run as hybrid.
	mode := core.SearchMode(getStringDefault(args, "search_mode", string(core.SearchModeHybrid)))

	categories, err := core.ParseCategories(getStringSlice(args, "categories"))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid categories", map[string]any{
			"param":  "categories",
			"reason": err.Error(),
		})
	}

	req := search.Request{
		Query:       query,
		ProfileName: getStringDefault(args, "profile_name", ""),
		Categories:  categories,
		TopK:        topK,
		MinScore:    getFloatDefault(args, "min_score", search.DefaultMinScore),
		Mode:        mode,
	}
	results, err := s.engine.Search(ctx, req)
	if err != nil {
		s.logger.Error("search_profile failed", "query", query, "err", err)
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]any{"error": err.Error()})
	}

	return mcp.NewToolResultText(formatJSON(map[string]any{
		"query":       query,
		"search_mode": mode.Normalize(),
		"count":       len(results),
		"results":     results,
	})), nil
}

// handleGetEntry handles the get_entry tool invocation
func (s *Server) handleGetEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	id := getIntDefault(args, "id", -1)
	if id < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]any{
			"param":  "id",
			"reason": "missing or negative",
		})
	}

	entry, err := s.engine.GetEntryWithData(ctx, id)
	if errors.Is(err, profiledb.ErrEntryNotFound) {
		return nil, newMCPError(ErrorCodeNotFound, "entry not found", map[string]any{"id": id})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get entry", map[string]any{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(entry)), nil
}

// handleDBStats handles the db_stats tool invocation
func (s *Server) handleDBStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.engine.Stats())), nil
}

// handleProfileSummary handles the profile_summary tool invocation
func (s *Server) handleProfileSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "profile_name")
	if err != nil {
		return nil, err
	}

	summary, err := s.engine.ProfileSummary(ctx, name)
	if errors.Is(err, profiledb.ErrProfileNotFound) {
		// Not a protocol failure; the agent asked about someone not indexed yet.
		return mcp.NewToolResultError(fmt.Sprintf("profile %q is not indexed", name)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to summarize profile", map[string]any{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(summary)), nil
}

// handleAgentContext handles the agent_context tool invocation
func (s *Server) handleAgentContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "profile_name")
	if err != nil {
		return nil, err
	}
	agentType, err := requireString(args, "agent_type")
	if err != nil {
		return nil, err
	}

	agentCtx, err := s.engine.AgentContext(ctx, name, agentType, getStringDefault(args, "task_context", ""))
	if err != nil {
		s.logger.Error("agent_context failed", "profile", name, "agent", agentType, "err", err)
		return nil, newMCPError(ErrorCodeInternalError, "failed to build agent context", map[string]any{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(agentCtx)), nil
}

// handleRemoveProfile handles the remove_profile tool invocation
func (s *Server) handleRemoveProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "profile_name")
	if err != nil {
		return nil, err
	}

	removed, err := s.engine.RemoveProfile(ctx, name)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to remove profile", map[string]any{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(map[string]any{
		"profile_name": name,
		"removed":      removed,
	})), nil
}

// handleCompactIndex handles the compact_index tool invocation
func (s *Server) handleCompactIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := s.engine.Stats()
	if err := s.engine.Compact(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "compaction failed", map[string]any{"error": err.Error()})
	}
	after := s.engine.Stats()
	return mcp.NewToolResultText(formatJSON(map[string]any{
		"dropped":    before.Tombstones,
		"index_size": after.IndexSize,
	})), nil
}

func arguments(request mcp.CallToolRequest) (map[string]any, error) {
	if request.Params.Arguments == nil {
		return map[string]any{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

func requireString(args map[string]any, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]any{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// decodeProfile accepts the profile as a JSON object or as a JSON string.
func decodeProfile(raw any) (*core.Profile, error) {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	return core.ParseProfile(data)
}

// formatJSON formats a value as indented JSON
func formatJSON(data any) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]any, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]any, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return float64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]any, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter, skipping non-strings.
func getStringSlice(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
