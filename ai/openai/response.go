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

package openai

import "strings"

// cleanResponse strips markdown code fences and repairs the JSON mistakes
// small local models commonly make.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return dropTrailingCommas(repairJSON(s))
}

// repairJSON adds the missing opening quote on keys such as `{terms": [...]}`.
func repairJSON(s string) string {
	src := []rune(s)
	out := make([]rune, 0, len(src)+8)

	for i := 0; i < len(src); {
		ch := src[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(src) && isSpace(src[i]) {
			out = append(out, src[i])
			i++
		}
		start := i
		for i < len(src) && (isLetter(src[i]) || src[i] == '_') {
			i++
		}
		if i > start && i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, src[start:i]...)
	}
	return string(out)
}

// dropTrailingCommas removes commas that directly precede a closing bracket,
// outside string literals.
func dropTrailingCommas(s string) string {
	src := []rune(s)
	out := make([]rune, 0, len(src))
	inString := false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if ch == '"' && (i == 0 || src[i-1] != '\\') {
			inString = !inString
		}
		if ch == ',' && !inString {
			j := i + 1
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == ']' || src[j] == '}') {
				continue
			}
		}
		out = append(out, ch)
	}
	return string(out)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
