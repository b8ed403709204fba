package openai

import "fmt"

const suggestionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "terms": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["terms"],
  "additionalProperties": false
}`

const suggestionPromptTemplate = `You help a recruiter search a database of candidate profiles written in Korean and English.
Given a search query, propose up to %d additional search terms that a matching profile would likely contain.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Prefer concrete skills, tools, job titles and domain words over generic words.
- Include the English form of Korean terms and the Korean form of English terms when both are common.
- Each term is 1-3 words.
- Do not repeat the query itself.
- If nothing useful can be suggested, return "terms": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "데이터 파이프라인 경험"
Output:
{"terms": ["data pipeline", "airflow", "spark", "ETL", "데이터 엔지니어"]}

Example:
Input: "machine learning model"
Output:
{"terms": ["머신러닝", "scikit-learn", "pytorch", "모델링"]}`

// buildSystemPrompt creates the system prompt with the term limit embedded.
func buildSystemPrompt(maxTerms int) string {
	if maxTerms <= 0 {
		maxTerms = 5
	}
	return fmt.Sprintf(suggestionPromptTemplate, maxTerms, suggestionResponseSchema)
}
