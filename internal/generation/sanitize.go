package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hsglabs/launchcopy-backend/pkg/config"
	"github.com/hsglabs/launchcopy-backend/pkg/errors"
)

const defaultMaxFeatureLength = 500

// baseDeniedPhrases are matched as case-insensitive substrings of the input.
var baseDeniedPhrases = []string{
	"ignore previous instructions",
	"as an ai model",
	"generate content in json",
	"disregard all",
	"output only",
	"act as",
	"you are now",
	"system prompt",
	"developer mode",
	"do anything now",
}

// Sanitizer validates free-text feature input before it is placed into a
// prompt. It has no side effects.
type Sanitizer struct {
	maxLength int
	denied    []string
}

func NewSanitizer(cfg config.PromptConfig) *Sanitizer {
	maxLength := cfg.MaxFeatureLength
	if maxLength <= 0 {
		maxLength = defaultMaxFeatureLength
	}

	denied := make([]string, 0, len(baseDeniedPhrases)+len(cfg.ExtraDeniedPhrases))
	denied = append(denied, baseDeniedPhrases...)
	for _, phrase := range cfg.ExtraDeniedPhrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			denied = append(denied, phrase)
		}
	}

	return &Sanitizer{maxLength: maxLength, denied: denied}
}

// Sanitize trims the input and rejects it when it is empty, exceeds the
// configured length bound, or contains a denied phrase.
func (s *Sanitizer) Sanitize(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", errors.New(errors.CodeValidation, "features are a required field")
	}
	if utf8.RuneCountInString(cleaned) > s.maxLength {
		return "", errors.New(errors.CodeValidation,
			fmt.Sprintf("input too long, please limit to %d characters", s.maxLength))
	}

	lowered := strings.ToLower(cleaned)
	for _, phrase := range s.denied {
		if strings.Contains(lowered, phrase) {
			return "", errors.New(errors.CodeValidation,
				"input contains potentially problematic content, please rephrase")
		}
	}
	return cleaned, nil
}
