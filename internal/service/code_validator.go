package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trace-ai/trace-api/internal/models"
)

// dangerousPatterns is the denylist of signatures rejected before code
// reaches the AI backend. Submitted code is forwarded as text, never
// executed.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rm\s+-rf`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)<script>`),
}

// CodeValidation reports the outcome of submission validation.
type CodeValidation struct {
	Valid  bool
	Errors []string
}

// ValidateCodeSubmission checks raw code text and a declared language,
// collecting every violation rather than stopping at the first. It never
// returns an error; the result carries the full violation list.
func ValidateCodeSubmission(code, language string) CodeValidation {
	var errs []string

	if code == "" {
		errs = append(errs, "Code is required")
	} else if strings.TrimSpace(code) == "" {
		errs = append(errs, "Code cannot be empty")
	}

	if len(code) > models.MaxCodeLength {
		errs = append(errs, fmt.Sprintf("Code exceeds maximum length of %d characters", models.MaxCodeLength))
	}

	if !models.IsSupportedLanguage(language) {
		errs = append(errs, fmt.Sprintf("Invalid language. Must be %s", strings.Join(models.SupportedLanguages, ", ")))
	}

	if code != "" {
		for _, pattern := range dangerousPatterns {
			if pattern.MatchString(code) {
				errs = append(errs, "Code contains potentially dangerous patterns")
				break
			}
		}
	}

	return CodeValidation{Valid: len(errs) == 0, Errors: errs}
}
