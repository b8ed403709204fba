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

package core

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Scalar holds a JSON string, number, boolean or flat list exactly as it was
// supplied. Profiles written by hand mix `"gpa": 3.8` and `"gpa": "3.8/4.5"`,
// so the raw form is kept for the payload and rendered as text for indexing.
type Scalar struct {
	raw json.RawMessage
}

// S builds a string Scalar.
func S(s string) Scalar {
	raw, _ := json.Marshal(s)
	return Scalar{raw: raw}
}

// String renders the scalar for text indexing. Null and absent values render empty.
func (s Scalar) String() string {
	if len(s.raw) == 0 || bytes.Equal(s.raw, []byte("null")) {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.raw, &str); err == nil {
		return str
	}
	if s.raw[0] == '[' {
		var items []Scalar
		if err := json.Unmarshal(s.raw, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				if text := item.String(); text != "" {
					parts = append(parts, text)
				}
			}
			return strings.Join(parts, " ")
		}
	}
	return string(s.raw)
}

// IsZero reports whether the scalar is absent or renders empty.
func (s Scalar) IsZero() bool {
	return s.String() == ""
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ErrInvalidScalar
	}
	s.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// Period is a start/end pair as written in the profile.
type Period struct {
	Start Scalar `json:"start"`
	End   Scalar `json:"end,omitzero"`
}

func (p Period) text() string {
	return p.Start.String() + " ~ " + p.End.String()
}

// Section is one indexable part of a profile. The implementations are the
// nine category types of this package; the interface is sealed.
type Section interface {
	Category() Category
	// Text renders the section as a single searchable string.
	Text() string
	isSection()
}

// textBuilder joins "label: value" parts with single spaces.
type textBuilder struct {
	parts []string
}

func (b *textBuilder) field(label string, value string) {
	b.parts = append(b.parts, label+": "+value)
}

func (b *textBuilder) items(values []string) {
	b.parts = append(b.parts, values...)
}

func (b *textBuilder) String() string {
	return strings.Join(b.parts, " ")
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

func (PersonalInfo) Category() Category { return CategoryPersonalInfo }
func (PersonalInfo) isSection()         {}

func (p PersonalInfo) Text() string {
	var b textBuilder
	b.field("이름", p.Name)
	b.field("이메일", p.Email)
	b.field("전화번호", p.Phone)
	b.field("거주지", p.Location)
	return b.String()
}

func (p PersonalInfo) isEmpty() bool {
	return p == PersonalInfo{}
}

type Education struct {
	University      string   `json:"university"`
	Major           string   `json:"major,omitempty"`
	Degree          string   `json:"degree,omitempty"`
	GraduationYear  Scalar   `json:"graduation_year,omitzero"`
	GPA             Scalar   `json:"gpa,omitzero"`
	RelevantCourses []string `json:"relevant_courses,omitempty"`
	Honors          []string `json:"honors,omitempty"`
}

func (Education) Category() Category { return CategoryEducation }
func (Education) isSection()         {}

func (e Education) Text() string {
	var b textBuilder
	b.field("학교", e.University)
	b.field("전공", e.Major)
	b.field("학위", e.Degree)
	b.field("졸업년도", e.GraduationYear.String())
	b.field("학점", e.GPA.String())
	b.items(e.RelevantCourses)
	b.items(e.Honors)
	return b.String()
}

type Achievement struct {
	Description string `json:"description"`
	Metrics     Scalar `json:"metrics,omitzero"`
	Impact      string `json:"impact,omitempty"`
}

type WorkExperience struct {
	Company          string        `json:"company"`
	Position         string        `json:"position,omitempty"`
	Department       string        `json:"department,omitempty"`
	Duration         Period        `json:"duration,omitzero"`
	Responsibilities []string      `json:"responsibilities,omitempty"`
	Achievements     []Achievement `json:"achievements,omitempty"`
	Technologies     []string      `json:"technologies,omitempty"`
	TeamSize         Scalar        `json:"team_size,omitzero"`
	KeyProjects      []string      `json:"key_projects,omitempty"`
}

func (WorkExperience) Category() Category { return CategoryWorkExperience }
func (WorkExperience) isSection()         {}

func (w WorkExperience) Text() string {
	var b textBuilder
	b.field("회사", w.Company)
	b.field("직책", w.Position)
	b.field("부서", w.Department)
	b.field("기간", w.Duration.text())
	b.items(w.Responsibilities)
	for _, a := range w.Achievements {
		b.field("성과", a.Description)
		b.field("지표", a.Metrics.String())
		b.field("임팩트", a.Impact)
	}
	b.items(w.Technologies)
	b.field("팀규모", w.TeamSize.String())
	b.items(w.KeyProjects)
	return b.String()
}

type Project struct {
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Duration     Period   `json:"duration,omitzero"`
	Description  string   `json:"description,omitempty"`
	Role         string   `json:"role,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Achievements Scalar   `json:"achievements,omitzero"`
	TeamSize     Scalar   `json:"team_size,omitzero"`
}

func (Project) Category() Category { return CategoryProject }
func (Project) isSection()         {}

func (p Project) Text() string {
	var b textBuilder
	b.field("프로젝트명", p.Name)
	b.field("유형", p.Type)
	b.field("기간", p.Duration.text())
	b.field("설명", p.Description)
	b.field("역할", p.Role)
	b.items(p.Technologies)
	b.field("성과", p.Achievements.String())
	b.field("팀규모", p.TeamSize.String())
	return b.String()
}

// Skills maps a skill group (e.g. "programming", "tools") to its items.
// Groups whose value is not a list are dropped on decode.
type Skills map[string][]string

func (Skills) Category() Category { return CategorySkills }
func (Skills) isSection()         {}

// Text lists every item of every group, groups in key order.
func (s Skills) Text() string {
	var b textBuilder
	for _, group := range s.groups() {
		b.items(s[group])
	}
	return b.String()
}

func (s Skills) groups() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Skills) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Skills, len(raw))
	for group, value := range raw {
		var items []string
		if err := json.Unmarshal(value, &items); err != nil {
			continue
		}
		out[group] = items
	}
	*s = out
	return nil
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   Scalar `json:"date,omitzero"`
	Score  Scalar `json:"score,omitzero"`
}

func (Certification) Category() Category { return CategoryCertification }
func (Certification) isSection()         {}

func (c Certification) Text() string {
	var b textBuilder
	b.field("자격증명", c.Name)
	b.field("발급기관", c.Issuer)
	b.field("취득일", c.Date.String())
	b.field("점수", c.Score.String())
	return b.String()
}

type Award struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer,omitempty"`
	Date        Scalar `json:"date,omitzero"`
	Description string `json:"description,omitempty"`
}

func (Award) Category() Category { return CategoryAward }
func (Award) isSection()         {}

func (a Award) Text() string {
	var b textBuilder
	b.field("수상명", a.Name)
	b.field("수여기관", a.Issuer)
	b.field("수상일", a.Date.String())
	b.field("내용", a.Description)
	return b.String()
}

type CareerGoals struct {
	ShortTerm       string   `json:"short_term,omitempty"`
	LongTerm        string   `json:"long_term,omitempty"`
	TargetCompanies []string `json:"target_companies,omitempty"`
	PreferredRoles  []string `json:"preferred_roles,omitempty"`
}

func (CareerGoals) Category() Category { return CategoryCareerGoals }
func (CareerGoals) isSection()         {}

func (g CareerGoals) Text() string {
	var b textBuilder
	b.field("단기목표", g.ShortTerm)
	b.field("장기목표", g.LongTerm)
	b.items(g.TargetCompanies)
	b.items(g.PreferredRoles)
	return b.String()
}

func (g CareerGoals) isEmpty() bool {
	return g.ShortTerm == "" && g.LongTerm == "" && len(g.TargetCompanies) == 0 && len(g.PreferredRoles) == 0
}

type Interests []string

func (Interests) Category() Category { return CategoryInterests }
func (Interests) isSection()         {}

func (i Interests) Text() string {
	return strings.Join(i, " ")
}

// Profile is a candidate's structured personal and career record.
//
// A decoded profile remembers each section's JSON as supplied, including
// fields the typed sections do not model; Sections hands it out as the
// entry payload. List sections whose length was changed after decoding fall
// back to the typed form.
type Profile struct {
	PersonalInfo   *PersonalInfo    `json:"personal_info,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	WorkExperience []WorkExperience `json:"work_experience,omitempty"`
	Projects       []Project        `json:"projects,omitempty"`
	Skills         Skills           `json:"skills,omitempty"`
	Certifications []Certification  `json:"certifications,omitempty"`
	Awards         []Award          `json:"awards,omitempty"`
	CareerGoals    *CareerGoals     `json:"career_goals,omitempty"`
	Interests      Interests        `json:"interests,omitempty"`

	raw *rawSections
}

// rawSections holds the supplied JSON of every section.
type rawSections struct {
	PersonalInfo   json.RawMessage   `json:"personal_info"`
	Education      []json.RawMessage `json:"education"`
	WorkExperience []json.RawMessage `json:"work_experience"`
	Projects       []json.RawMessage `json:"projects"`
	Skills         json.RawMessage   `json:"skills"`
	Certifications []json.RawMessage `json:"certifications"`
	Awards         []json.RawMessage `json:"awards"`
	CareerGoals    json.RawMessage   `json:"career_goals"`
	Interests      json.RawMessage   `json:"interests"`
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var typed plain
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	var raw rawSections
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Profile(typed)
	p.raw = &raw
	return nil
}

// rawItem returns items[i] when items lines up with a list of n sections.
func rawItem(items []json.RawMessage, n, i int) json.RawMessage {
	if len(items) != n {
		return nil
	}
	return items[i]
}

// IndexedSection is a section plus its position in the category list.
// Index is nil for categories that produce a single aggregated entry.
// Raw is the section JSON as supplied, nil for profiles built in code.
type IndexedSection struct {
	Section Section
	Index   *int
	Raw     json.RawMessage
}

// Sections decomposes the profile into indexable sections in category order.
// Empty singleton sections are skipped.
func (p *Profile) Sections() []IndexedSection {
	raw := p.raw
	if raw == nil {
		raw = &rawSections{}
	}

	var out []IndexedSection
	single := func(s Section, data json.RawMessage) {
		out = append(out, IndexedSection{Section: s, Raw: data})
	}
	listed := func(i int, s Section, data json.RawMessage) {
		idx := i
		out = append(out, IndexedSection{Section: s, Index: &idx, Raw: data})
	}

	if p.PersonalInfo != nil && !p.PersonalInfo.isEmpty() {
		single(*p.PersonalInfo, raw.PersonalInfo)
	}
	for i, e := range p.Education {
		listed(i, e, rawItem(raw.Education, len(p.Education), i))
	}
	for i, w := range p.WorkExperience {
		listed(i, w, rawItem(raw.WorkExperience, len(p.WorkExperience), i))
	}
	for i, pr := range p.Projects {
		listed(i, pr, rawItem(raw.Projects, len(p.Projects), i))
	}
	if len(p.Skills) > 0 {
		single(p.Skills, raw.Skills)
	}
	for i, c := range p.Certifications {
		listed(i, c, rawItem(raw.Certifications, len(p.Certifications), i))
	}
	for i, a := range p.Awards {
		listed(i, a, rawItem(raw.Awards, len(p.Awards), i))
	}
	if p.CareerGoals != nil && !p.CareerGoals.isEmpty() {
		single(*p.CareerGoals, raw.CareerGoals)
	}
	if len(p.Interests) > 0 {
		single(p.Interests, raw.Interests)
	}
	return out
}

// Payload returns the JSON stored for the section: the supplied JSON,
// compacted, when there is one, and the typed section otherwise.
func (s IndexedSection) Payload() (json.RawMessage, error) {
	if len(s.Raw) == 0 {
		return json.Marshal(s.Section)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, s.Raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseProfile decodes a profile from JSON.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
