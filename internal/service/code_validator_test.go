package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCodeSubmissionAcceptsValidInput(t *testing.T) {
	for _, language := range []string{"javascript", "python", "java"} {
		result := ValidateCodeSubmission("function add(a, b) { return a + b; }", language)
		require.True(t, result.Valid, "language %s", language)
		require.Empty(t, result.Errors)
	}
}

func TestValidateCodeSubmissionMissingCode(t *testing.T) {
	result := ValidateCodeSubmission("", "javascript")
	require.False(t, result.Valid)
	require.Contains(t, result.Errors, "Code is required")
}

func TestValidateCodeSubmissionWhitespaceOnly(t *testing.T) {
	result := ValidateCodeSubmission("   \n\t  ", "python")
	require.False(t, result.Valid)
	require.Contains(t, result.Errors, "Code cannot be empty")
}

func TestValidateCodeSubmissionTooLong(t *testing.T) {
	result := ValidateCodeSubmission(strings.Repeat("a", 10001), "java")
	require.False(t, result.Valid)
	require.Contains(t, result.Errors, "Code exceeds maximum length of 10000 characters")
}

func TestValidateCodeSubmissionBoundaryLengthAccepted(t *testing.T) {
	result := ValidateCodeSubmission(strings.Repeat("a", 10000), "java")
	require.True(t, result.Valid)
}

func TestValidateCodeSubmissionInvalidLanguage(t *testing.T) {
	result := ValidateCodeSubmission("print('hi')", "cobol")
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "Invalid language")
}

func TestValidateCodeSubmissionDangerousPatterns(t *testing.T) {
	inputs := []string{
		"os.system('rm -rf /')",
		"RM   -RF /tmp",
		"eval(userInput)",
		"EVAL (x)",
		"<script>alert(1)</script>",
		"<SCRIPT>",
	}

	for _, code := range inputs {
		result := ValidateCodeSubmission(code, "javascript")
		require.False(t, result.Valid, "code %q", code)
		require.Contains(t, result.Errors, "Code contains potentially dangerous patterns", "code %q", code)
	}
}

func TestValidateCodeSubmissionCollectsAllViolations(t *testing.T) {
	result := ValidateCodeSubmission(strings.Repeat("eval(x);", 2000), "cobol")
	require.False(t, result.Valid)
	// Length, language and pattern violations reported together.
	require.Len(t, result.Errors, 3)
}
