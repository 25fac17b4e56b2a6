package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const reviewSystemPrompt = `You are a senior software engineer and technical mentor.

Rules:
- Be strict but constructive
- Explain mistakes in simple language
- Do NOT over-engineer
- Focus on learning
- Assume the developer is a beginner

Always return VALID JSON in this EXACT format (no additional text):

{
  "summary": "short assessment",
  "issues": [
    {
      "type": "logic | performance | style | best-practice",
      "description": "what is wrong",
      "impact": "why it matters",
      "suggestion": "how to fix"
    }
  ],
  "timeComplexity": "Big-O notation",
  "spaceComplexity": "Big-O notation",
  "optimizedCode": "improved code if applicable, or empty string",
  "learningNotes": [
    "key takeaway explaining the most important concept"
  ]
}`

const consultantSystemPrompt = `You are the Trace.ai Follow-up Consultant.
Your job is to answer specific questions a developer has about their code review results.
Context provided:
- Original Code
- Review Summary
- Detected Issues

Guidelines:
- Reference specific parts of the review to explain your answers.
- Be encouraging and educational.
- If the user asks for a different solution, explain the trade-offs.
- Keep responses concise and formatted in Markdown.`

func buildReviewPrompt(code, language string) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("Review this %s code and provide structured feedback:\n\n", language))
	builder.WriteString("```")
	builder.WriteString(language)
	builder.WriteString("\n")
	builder.WriteString(code)
	builder.WriteString("\n```\n\n")
	builder.WriteString("Remember to return ONLY valid JSON with no additional commentary.")
	return builder.String()
}

func buildConsultantPrompt(input ChatInput) string {
	issues, err := json.Marshal(input.Issues)
	if err != nil {
		issues = []byte("[]")
	}

	builder := strings.Builder{}
	builder.WriteString("Context:\nSource Code:\n```\n")
	builder.WriteString(input.Code)
	builder.WriteString("\n```\n\n")
	builder.WriteString("Review Summary: ")
	builder.WriteString(input.Summary)
	builder.WriteString("\nIssues Found: ")
	builder.Write(issues)
	builder.WriteString("\n\nUser Question: ")
	builder.WriteString(input.Question)
	builder.WriteString("\n\nPlease provide a helpful, concise answer based on the review context.")
	return builder.String()
}
