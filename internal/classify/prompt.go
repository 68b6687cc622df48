package classify

import (
	"fmt"
	"strings"
	"text/template"
)

// maxCommentRunes bounds how much of each comment feeds the prompt.
const maxCommentRunes = 300

// Comment is a recent issue comment included in the prompt context.
type Comment struct {
	Author string
	Body   string
}

// Request is the prompt context for one ticket.
type Request struct {
	Title    string
	Labels   []string
	Body     string
	Comments []Comment
	// Previous, when set, asks the model to reconsider an earlier verdict
	// (retriage) instead of classifying from scratch.
	Previous *previousVerdict
}

type previousVerdict struct {
	Difficulty string
	SkillMatch string
}

// WithPrevious attaches the prior verdict for a retriage prompt.
func (r Request) WithPrevious(difficulty, skillMatch string) Request {
	r.Previous = &previousVerdict{Difficulty: difficulty, SkillMatch: skillMatch}
	return r
}

type promptData struct {
	Title    string
	Labels   string
	Body     string
	Comments string
	Previous *previousVerdict
}

func renderPrompt(tmpl *template.Template, req Request) (string, error) {
	labels := strings.Join(req.Labels, ", ")
	if labels == "" {
		labels = "None"
	}

	comments := "None"
	if len(req.Comments) > 0 {
		var lines []string
		for _, c := range req.Comments {
			body := c.Body
			if runes := []rune(body); len(runes) > maxCommentRunes {
				body = string(runes[:maxCommentRunes])
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", c.Author, body))
		}
		comments = strings.Join(lines, "\n")
	}

	var b strings.Builder
	err := tmpl.Execute(&b, promptData{
		Title:    req.Title,
		Labels:   labels,
		Body:     req.Body,
		Comments: comments,
		Previous: req.Previous,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

const userPromptTemplate = `You are triaging a GitHub issue from the WordPress Gutenberg repository for a contributor who is strong in JavaScript/TypeScript and automated testing, and looking for well-scoped issues to fix.

**Title:** {{.Title}}

**Labels:** {{.Labels}}

**Recent comments:**
{{.Comments}}

**Body:**
{{.Body}}
{{if .Previous}}
This issue was classified before as difficulty={{.Previous.Difficulty}}, skill_match={{.Previous.SkillMatch}}. The issue has changed since then; reconsider the verdict against the current state rather than repeating the old one.
{{end}}
Respond with a single JSON object and nothing else. No markdown fences, no commentary. The object must have exactly these keys:

{
  "difficulty": "Easy" | "Low" | "Medium" | "High" | "Beyond",
  "skill_match": "Yes" | "Maybe" | "No",
  "scope_clarity": "Clear" | "Somewhat Clear" | "Unclear",
  "test_focused": "Yes" | "No" | "Unclear",
  "risk_flags": ["short strings naming risks like architectural changes, breaking changes, contentious discussion"],
  "one_line_reason": "one sentence justifying the verdict",
  "summary": "2-3 sentence summary of the problem"
}

Be conservative: when unsure, prefer "Maybe" over "Yes" and "Unclear" over "Clear".`
