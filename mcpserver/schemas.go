package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/poiesic/profiledb/core"
)

func categoryNames() []string {
	names := make([]string, len(core.Categories))
	for i, c := range core.Categories {
		names[i] = c.String()
	}
	return names
}

var profileNameProperty = map[string]any{
	"type":        "string",
	"description": "Name of the candidate profile",
}

func syncProfileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sync_profile",
		Description: "Index a candidate profile, replacing any entries previously indexed under the same name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"profile_name": profileNameProperty,
				"profile": map[string]any{
					"type":        "object",
					"description": "Profile document with personal_info, education, work_experience, projects, skills, certifications, awards, career_goals and interests",
				},
			},
			Required: []string{"profile_name", "profile"},
		},
	}
}

func searchProfileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_profile",
		Description: "Search indexed profile entries with semantic, keyword or hybrid retrieval",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query in Korean or English",
				},
				"profile_name": map[string]any{
					"type":        "string",
					"description": "Restrict results to this profile",
				},
				"categories": map[string]any{
					"type":        "array",
					"description": "Restrict results to these entry categories",
					"items": map[string]any{
						"type": "string",
						"enum": categoryNames(),
					},
				},
				"top_k": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
				"min_score": map[string]any{
					"type":        "number",
					"description": "Minimum final score",
					"default":     0.1,
				},
				"search_mode": map[string]any{
					"type":        "string",
					"description": "Retrieval mode: hybrid, semantic or keyword. Unknown values run as hybrid",
					"default":     "hybrid",
				},
			},
			Required: []string{"query"},
		},
	}
}

func getEntryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_entry",
		Description: "Fetch one indexed entry with its text and original section data",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id": map[string]any{
					"type":        "integer",
					"description": "Entry id as returned by search_profile",
					"minimum":     0,
				},
			},
			Required: []string{"id"},
		},
	}
}

func dbStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "db_stats",
		Description: "Report entry counts per category and per profile",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}
}

func profileSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "profile_summary",
		Description: "Summarize the entries indexed for one profile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"profile_name": profileNameProperty,
			},
			Required: []string{"profile_name"},
		},
	}
}

func agentContextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "agent_context",
		Description: "Retrieve the profile entries a writing agent needs for its task",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"profile_name": profileNameProperty,
				"agent_type": map[string]any{
					"type":        "string",
					"description": "Agent type: company_analyst, jd_analyst, question_guide, experience_guide or writing_guide",
				},
				"task_context": map[string]any{
					"type":        "string",
					"description": "Task description; used as the query by question_guide",
				},
			},
			Required: []string{"profile_name", "agent_type"},
		},
	}
}

func removeProfileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_profile",
		Description: "Remove every entry of a profile from the index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"profile_name": profileNameProperty,
			},
			Required: []string{"profile_name"},
		},
	}
}

func compactIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "compact_index",
		Description: "Drop removed entries from the index and renumber the remaining ones",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}
}
