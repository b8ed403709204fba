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

// Package profiledb is a hybrid retrieval engine for candidate profiles.
//
// A profile is decomposed into one entry per section (personal info, each
// education, job and project, skills, certifications, awards, career goals
// and interests). Every entry is indexed twice: as an embedding in a flat
// inner-product vector index and as a document in a BM25 keyword index.
// Searches expand the query with data and AI vocabulary, run either index or
// both, and merge the scores.
//
// Engine owns the parallel arrays (texts, metadata, vectors, keyword
// documents) that share entry ids, and the persistence of those arrays
// through a storage.Store. Removing a profile tombstones its entries;
// compaction drops them and renumbers the survivors.
//
// Basic usage:
//
//	engine, err := profiledb.Open(ctx, "./profile_db", profiledb.WithProvider(provider))
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	ids, err := engine.SyncProfile(ctx, "alice", profile)
//	results, err := engine.Search(ctx, search.Request{Query: "데이터 파이프라인 경험", ProfileName: "alice"})
package profiledb
