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
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/profiledb/config"
	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/search"
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	profile := flag.String("profile", "", "restrict hits to one profile")
	mode := flag.String("mode", string(core.SearchModeHybrid), "semantic, keyword or hybrid")
	topK := flag.Int("k", 5, "number of hits")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	engine, err := cfg.Open(ctx)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	query := "데이터 파이프라인 경험"
	if flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}
	results, err := engine.Search(ctx, search.Request{
		Query:       query,
		ProfileName: *profile,
		TopK:        *topK,
		Mode:        core.SearchMode(*mode),
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: [%s/%s] '%s' (%d)[%0.3f sem=%0.3f kw=%0.3f]\n", i,
			hit.Meta.ProfileName, hit.Meta.Category, hit.Text, hit.ID, hit.Score, hit.SemanticScore, hit.KeywordScore)
	}
}
