package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

const (
	maxTermExamples  = 5
	maxTermHints     = 10
	unknownTermsPair = "One or both of those terms are outside my phone glossary, so I can't compare them. Try terms like OIS, EIS, AMOLED, or IP68."
)

// versusRe splits comparison queries like "OIS vs EIS" or "amoled versus lcd".
var versusRe = regexp.MustCompile(`(?i)\s+(?:vs\.?|versus)\s+`)

type explainTerm struct {
	glossary TermGlossary
}

func NewExplainTerm(glossary TermGlossary) *explainTerm {
	return &explainTerm{glossary: glossary}
}

func (e *explainTerm) Name() string {
	return "explain_term"
}

func (e *explainTerm) Description() string {
	return "Explain technical terms related to mobile phones, or compare two terms like 'OIS vs EIS'."
}

func (e *explainTerm) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"term": {
				Type:        jsonschema.String,
				Description: "Technical term to explain (OIS, EIS, AMOLED, etc.), or two terms as 'A vs B'",
			},
		},
		Required: []string{"term"},
	}
}

type explainTermArgs struct {
	Term string `json:"term"`
}

func (e *explainTerm) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var a explainTermArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", fmt.Errorf("parsing term arguments: %w", err)
	}

	if parts := versusRe.Split(a.Term, 2); len(parts) == 2 {
		return e.compareTerms(parts[0], parts[1]), nil
	}

	term, err := e.glossary.TermByName(a.Term)
	if err != nil {
		hints := e.glossary.TermNames()
		if len(hints) > maxTermHints {
			hints = hints[:maxTermHints]
		}
		return fmt.Sprintf("Technical term '%s' not found. Available terms: %s.",
			a.Term, strings.Join(hints, ", ")), nil
	}

	return e.renderTerm(term), nil
}

// compareTerms is both-or-nothing: a partial comparison is never rendered.
func (e *explainTerm) compareTerms(left, right string) string {
	leftTerm, leftErr := e.glossary.TermByName(left)
	rightTerm, rightErr := e.glossary.TermByName(right)
	if leftErr != nil || rightErr != nil {
		return unknownTermsPair
	}

	return e.renderTerm(leftTerm) + "\n\n" + e.renderTerm(rightTerm)
}

func (e *explainTerm) renderTerm(term domain.TechTerm) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", term.Term, term.FullName)
	fmt.Fprintf(&b, "%s\n", term.Explanation)

	if len(term.Benefits) > 0 {
		b.WriteString("Benefits:\n")
		for _, benefit := range term.Benefits {
			fmt.Fprintf(&b, "- %s\n", benefit)
		}
	}

	fmt.Fprintf(&b, "Use case: %s", term.UseCase)

	examples := e.glossary.ExamplesForTerm(term.Term, maxTermExamples)
	if len(examples) > 0 {
		names := lo.Map(examples, func(p domain.Phone, _ int) string { return p.FullName() })
		fmt.Fprintf(&b, "\nExample phones: %s", strings.Join(names, ", "))
	}

	return b.String()
}
