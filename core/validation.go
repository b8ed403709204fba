package core

import (
	"fmt"
	"strings"
)

// ValidateProfileName checks that a profile name is usable as an owner key.
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyProfileName
	}
	return nil
}

// ValidateProfile validates a Profile according to domain rules.
//
// Validation rules:
//   - Profile must not be nil
//   - Every list item must carry its identifying field (university,
//     company, project name, certification name, award name)
//
// Singleton sections may be empty; they are skipped during decomposition.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	for i, e := range p.Education {
		if strings.TrimSpace(e.University) == "" {
			return fmt.Errorf("%w: education[%d]: %w", ErrInvalidProfile, i, ErrEmptySectionKey)
		}
	}
	for i, w := range p.WorkExperience {
		if strings.TrimSpace(w.Company) == "" {
			return fmt.Errorf("%w: work_experience[%d]: %w", ErrInvalidProfile, i, ErrEmptySectionKey)
		}
	}
	for i, pr := range p.Projects {
		if strings.TrimSpace(pr.Name) == "" {
			return fmt.Errorf("%w: projects[%d]: %w", ErrInvalidProfile, i, ErrEmptySectionKey)
		}
	}
	for i, c := range p.Certifications {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: certifications[%d]: %w", ErrInvalidProfile, i, ErrEmptySectionKey)
		}
	}
	for i, a := range p.Awards {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: awards[%d]: %w", ErrInvalidProfile, i, ErrEmptySectionKey)
		}
	}
	return nil
}

// ValidateEntryMeta validates stored entry metadata.
func ValidateEntryMeta(meta EntryMeta) error {
	if !meta.Category.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, int(meta.Category))
	}
	return ValidateProfileName(meta.ProfileName)
}
