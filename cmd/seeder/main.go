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

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/profiledb/config"
	"github.com/poiesic/profiledb/ingestion"
)

// seedRecord is one line of a seed file.
type seedRecord struct {
	Name    string          `json:"name"`
	Profile json.RawMessage `json:"profile"`
}

var samples = []seedRecord{
	{Name: "김지은", Profile: json.RawMessage(`{
		"personal_info": {"name": "김지은", "email": "jieun@example.com", "location": "서울"},
		"education": [{"university": "서울대학교", "major": "컴퓨터공학", "degree": "학사", "graduation_year": 2019, "gpa": "3.9/4.3"}],
		"work_experience": [{
			"company": "데이터랩",
			"position": "데이터 엔지니어",
			"department": "플랫폼팀",
			"duration": {"start": "2019-03", "end": "현재"},
			"responsibilities": ["Airflow 기반 데이터 파이프라인 구축", "Spark 배치 작업 최적화"],
			"achievements": [{"description": "일일 배치 처리 시간 단축", "metrics": "40%", "impact": "리포트 제공 시간 앞당김"}],
			"technologies": ["Python", "Spark", "Airflow", "Kafka"],
			"team_size": 6
		}],
		"projects": [{"name": "실시간 추천 로그 수집", "role": "리드", "technologies": ["Kafka", "Flink"], "achievements": "지연 시간 1초 이하"}],
		"skills": {"programming": ["Python", "SQL", "Scala"], "tools": ["Airflow", "Docker"]},
		"certifications": [{"name": "정보처리기사", "issuer": "한국산업인력공단", "date": "2018-11"}],
		"career_goals": {"short_term": "데이터 플랫폼 고도화", "long_term": "데이터 조직 리드", "preferred_roles": ["데이터 엔지니어"]},
		"interests": ["오픈소스", "등산"]
	}`)},
	{Name: "이민호", Profile: json.RawMessage(`{
		"personal_info": {"name": "이민호", "location": "판교"},
		"education": [{"university": "KAIST", "major": "전산학", "degree": "석사"}],
		"work_experience": [{
			"company": "페이먼츠코리아",
			"position": "백엔드 개발자",
			"duration": {"start": "2020-01", "end": "2024-06"},
			"responsibilities": ["Java Spring 기반 결제 API 개발", "MSA 전환"],
			"technologies": ["Java", "Spring Boot", "MySQL", "Redis"],
			"key_projects": ["정산 시스템 재구축"]
		}],
		"projects": [{"name": "결제 게이트웨이", "type": "사내", "description": "대용량 트래픽 결제 처리", "technologies": ["Java", "Kubernetes"]}],
		"skills": {"programming": ["Java", "Kotlin", "Go"], "infra": ["Kubernetes", "AWS"]},
		"awards": [{"name": "사내 해커톤 대상", "issuer": "페이먼츠코리아", "date": "2022"}],
		"interests": ["테니스"]
	}`)},
	{Name: "Sarah Park", Profile: json.RawMessage(`{
		"personal_info": {"name": "Sarah Park", "email": "sarah@example.com"},
		"education": [{"university": "University of Washington", "major": "Statistics", "relevant_courses": ["Machine Learning", "Bayesian Inference"]}],
		"work_experience": [{
			"company": "Insight Analytics",
			"position": "Data Scientist",
			"responsibilities": ["Churn prediction models", "A/B test analysis"],
			"technologies": ["Python", "scikit-learn", "TensorFlow"]
		}],
		"skills": {"programming": ["Python", "R"], "ml": ["scikit-learn", "PyTorch"]},
		"career_goals": {"short_term": "ML engineer role", "target_companies": ["네이버", "카카오"]}
	}`)},
}

var (
	seedFileName = flag.String("src", "", "JSON lines file of {name, profile} seed records")
	root         = flag.String("root", "", "index directory (overrides config)")
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// recordsFromFile returns an iterator over the records in a JSON lines file.
// Lines that do not decode are logged and skipped.
func recordsFromFile(filename string) (iter.Seq[seedRecord], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(seedRecord) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for line := 1; scanner.Scan(); line++ {
			var rec seedRecord
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				slog.Warn("skipping seed line", "line", line, "err", err)
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}, nil
}

// recordsFromSlice returns an iterator over a slice of records.
func recordsFromSlice(records []seedRecord) iter.Seq[seedRecord] {
	return func(yield func(seedRecord) bool) {
		for _, rec := range records {
			if !yield(rec) {
				return
			}
		}
	}
}

// ingestBatched reads from a source iterator and ingests profiles in batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[seedRecord], batchSize int) error {
	batch := make([]ingestion.Document, 0, batchSize)
	flush := func() error {
		results, err := pipeline.Ingest(ctx, batch)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				slog.Error("seed profile failed", "profile", r.Name, "err", r.Err)
				continue
			}
			slog.Info("seeded profile", "profile", r.Name, "entries", len(r.EntryIDs))
		}
		batch = batch[:0]
		return nil
	}

	for rec := range source {
		batch = append(batch, ingestion.Document{Name: rec.Name, Source: "seed", Data: rec.Profile})
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	// Process any remaining profiles
	if len(batch) > 0 {
		return flush()
	}
	return nil
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	if *root != "" {
		cfg.Root = *root
	}

	ctx := context.Background()
	engine, err := cfg.Open(ctx)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	pipeline, err := ingestion.NewPipeline(engine)
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	// Determine source of seed data
	var source iter.Seq[seedRecord]
	if seedFileName != nil && *seedFileName != "" {
		source, err = recordsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = recordsFromSlice(samples)
	}

	// Ingest in batches of 5
	if err := ingestBatched(ctx, pipeline, source, 5); err != nil {
		panic(err)
	}
}
