package core

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// HashKey returns a short hex digest of text using BLAKE2b.
// Identical text always produces the same key.
func HashKey(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Checksum returns a 64-bit BLAKE2b digest of data.
func Checksum(data []byte) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write(data)
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// Category identifies which part of a profile an entry was derived from.
// The set is closed; use ParseCategory to convert untrusted strings.
type Category int

const (
	CategoryPersonalInfo Category = iota + 1
	CategoryEducation
	CategoryWorkExperience
	CategoryProject
	CategorySkills
	CategoryCertification
	CategoryAward
	CategoryCareerGoals
	CategoryInterests
)

var categoryNames = map[Category]string{
	CategoryPersonalInfo:   "personal_info",
	CategoryEducation:      "education",
	CategoryWorkExperience: "work_experience",
	CategoryProject:        "project",
	CategorySkills:         "skills",
	CategoryCertification:  "certification",
	CategoryAward:          "award",
	CategoryCareerGoals:    "career_goals",
	CategoryInterests:      "interests",
}

// Categories lists every category in decomposition order.
var Categories = []Category{
	CategoryPersonalInfo,
	CategoryEducation,
	CategoryWorkExperience,
	CategoryProject,
	CategorySkills,
	CategoryCertification,
	CategoryAward,
	CategoryCareerGoals,
	CategoryInterests,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is one of the nine known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory converts a category name into a Category.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, name)
}

// ParseCategories converts a list of category names, failing on the first unknown one.
func ParseCategories(names []string) ([]Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SearchMode selects which retrieval paths a search runs.
type SearchMode string

const (
	SearchModeSemantic SearchMode = "semantic"
	SearchModeKeyword  SearchMode = "keyword"
	SearchModeHybrid   SearchMode = "hybrid"
)

// Normalize returns the mode itself when known, hybrid otherwise.
func (m SearchMode) Normalize() SearchMode {
	switch m {
	case SearchModeSemantic, SearchModeKeyword, SearchModeHybrid:
		return m
	default:
		return SearchModeHybrid
	}
}

// Search method labels reported on results.
const (
	MethodSemantic = "semantic_similarity_data_ai"
	MethodKeyword  = "keyword_bm25"
	MethodHybrid   = "hybrid_semantic_keyword"
)

// EntryMeta is the small, always-in-memory description of an entry.
// The full payload lives in the entry store.
type EntryMeta struct {
	Category    Category  `json:"type"`
	ProfileName string    `json:"profile_name"`
	Timestamp   time.Time `json:"timestamp"`
	Index       *int      `json:"index"` // Position within the category list; nil for singleton categories
}

// EntryWithData is an entry joined with its stored payload.
type EntryWithData struct {
	ID   int             `json:"id"`
	Meta EntryMeta       `json:"metadata"`
	Text string          `json:"text"`
	Data json.RawMessage `json:"data"`
}

// SearchResult is a single ranked entry.
type SearchResult struct {
	ID            int       `json:"id"`
	Meta          EntryMeta `json:"metadata"`
	Text          string    `json:"text"`
	Score         float64   `json:"score"`
	SemanticScore float64   `json:"semantic_score"`
	KeywordScore  float64   `json:"keyword_score"`
	OriginalScore float64   `json:"original_score,omitempty"` // Raw cosine before weighting
	TypeWeight    float64   `json:"type_weight,omitempty"`
	KeywordBonus  float64   `json:"keyword_bonus,omitempty"`
	SearchMethod  string    `json:"search_method"`
}

// Stats summarizes the live corpus.
type Stats struct {
	TotalEntries         int            `json:"total_entries"`
	TypeCounts           map[string]int `json:"type_counts"`
	ProfileCounts        map[string]int `json:"profile_counts"`
	IndexSize            int            `json:"index_size"`
	Tombstones           int            `json:"tombstones"`
	VectorStoreAvailable bool           `json:"vector_store_available"`
}

// ProfileSummary describes the entries held for one profile.
type ProfileSummary struct {
	ProfileName  string          `json:"profile_name"`
	PersonalInfo json.RawMessage `json:"personal_info"`
	TypeCounts   map[string]int  `json:"type_counts"`
	TotalEntries int             `json:"total_entries"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// AgentStrategy is the canned search an agent type runs against a profile.
type AgentStrategy struct {
	Query      string     `json:"query"`
	Categories []Category `json:"data_types"`
	TopK       int        `json:"top_k"`
}

// AgentContext bundles the entries retrieved for an agent.
type AgentContext struct {
	ProfileName      string          `json:"profile_name"`
	AgentType        string          `json:"agent_type"`
	TaskContext      string          `json:"task_context,omitempty"`
	RelevantEntries  []*SearchResult `json:"relevant_entries"`
	Strategy         AgentStrategy   `json:"strategy"`
	VectorDBEnabled  bool            `json:"vectordb_enabled"`
	ContextTimestamp time.Time       `json:"context_timestamp"`
}
