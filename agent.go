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

package profiledb

import (
	"context"

	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/search"
)

// Agent types with a dedicated retrieval strategy.
const (
	AgentCompanyAnalyst  = "company_analyst"
	AgentJDAnalyst       = "jd_analyst"
	AgentQuestionGuide   = "question_guide"
	AgentExperienceGuide = "experience_guide"
	AgentWritingGuide    = "writing_guide"
)

const (
	agentContextMinScore  = 0.1
	questionGuideFallback = "자기소개서 질문에 관련된 경험"
)

var agentStrategies = map[string]core.AgentStrategy{
	AgentCompanyAnalyst: {
		Query:      "회사 분석에 필요한 경험과 목표",
		Categories: []core.Category{core.CategoryWorkExperience, core.CategoryCareerGoals, core.CategoryPersonalInfo},
		TopK:       5,
	},
	AgentJDAnalyst: {
		Query:      "직무 요구사항에 맞는 기술과 경험",
		Categories: []core.Category{core.CategoryWorkExperience, core.CategorySkills, core.CategoryProject},
		TopK:       5,
	},
	AgentQuestionGuide: {
		Categories: []core.Category{core.CategoryWorkExperience, core.CategoryProject, core.CategoryEducation},
		TopK:       5,
	},
	AgentExperienceGuide: {
		Query:      "STAR 방법론에 적합한 구체적 경험",
		Categories: []core.Category{core.CategoryWorkExperience, core.CategoryProject},
		TopK:       3,
	},
	AgentWritingGuide: {
		Query:      "글쓰기 전략에 필요한 경험과 목표",
		Categories: []core.Category{core.CategoryWorkExperience, core.CategoryProject, core.CategoryCareerGoals},
		TopK:       5,
	},
}

var defaultStrategy = core.AgentStrategy{
	Query:      "관련 경험",
	Categories: []core.Category{core.CategoryWorkExperience, core.CategoryProject},
	TopK:       3,
}

// StrategyFor returns the retrieval strategy of an agent type. The question
// guide searches with the task context itself when one is given. Unknown
// agent types get a generic experience search.
func StrategyFor(agentType, taskContext string) core.AgentStrategy {
	s, ok := agentStrategies[agentType]
	if !ok {
		s = defaultStrategy
	}
	if agentType == AgentQuestionGuide {
		s.Query = questionGuideFallback
		if taskContext != "" {
			s.Query = taskContext
		}
	}
	return s
}

// AgentContext retrieves the entries an agent of agentType needs about
// profile name.
func (e *Engine) AgentContext(ctx context.Context, name, agentType, taskContext string) (*core.AgentContext, error) {
	strategy := StrategyFor(agentType, taskContext)

	results, err := e.Search(ctx, search.Request{
		Query:       strategy.Query,
		ProfileName: name,
		Categories:  strategy.Categories,
		TopK:        strategy.TopK,
		MinScore:    agentContextMinScore,
		Mode:        core.SearchModeHybrid,
	})
	if err != nil {
		return nil, err
	}

	return &core.AgentContext{
		ProfileName:      name,
		AgentType:        agentType,
		TaskContext:      taskContext,
		RelevantEntries:  results,
		Strategy:         strategy,
		VectorDBEnabled:  e.VectorStoreAvailable(),
		ContextTimestamp: e.now(),
	}, nil
}
