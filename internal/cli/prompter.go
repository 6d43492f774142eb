package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

// Prompter asks questions on a terminal.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter. Nil arguments fall back to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{reader: NewLineReader(reader), writer: writer}
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(question+" [y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Questionnaire walks the setup steps and collects the answers. A blank
// answer skips a step; multi-answer steps take comma-separated numbers.
func (p *Prompter) Questionnaire(ctx context.Context) (template.Selections, error) {
	var sel template.Selections
	for _, step := range template.Steps {
		ids, err := p.askStep(ctx, step)
		if err != nil {
			return template.Selections{}, err
		}
		assign(&sel, step.Key, ids)
	}
	return sel, nil
}

func (p *Prompter) askStep(ctx context.Context, step template.Step) ([]string, error) {
	var b strings.Builder
	b.WriteString(BoldStyle.Render(step.Title) + "\n")
	for i, opt := range step.Options {
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, opt.Label)
	}
	hint := "Choose one"
	if step.Mode == template.ModeMulti {
		hint = "Choose any (e.g. 1,3)"
	}
	if step.SkipText != "" {
		hint += " (blank: " + step.SkipText + ")"
	}
	b.WriteString(FormatPrompt(hint))
	if _, err := fmt.Fprint(p.writer, b.String()); err != nil {
		return nil, fmt.Errorf("failed to write step: %w", err)
	}

	for {
		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return nil, err
		}
		ids, ok := parseChoices(answer, step)
		if ok {
			return ids, nil
		}
		if _, err := fmt.Fprint(p.writer, FormatError("Invalid choice, try again")+"\n"+FormatPrompt(hint)); err != nil {
			return nil, fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}

// parseChoices maps a line of 1-based option numbers to option IDs.
func parseChoices(answer string, step template.Step) ([]string, bool) {
	if answer == "" {
		return nil, true
	}
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' })
	if step.Mode != template.ModeMulti && len(fields) > 1 {
		return nil, false
	}

	ids := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(step.Options) {
			return nil, false
		}
		id := step.Options[n-1].ID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, true
}

func assign(sel *template.Selections, key string, ids []string) {
	switch key {
	case "household":
		sel.Household = ids
	case "home":
		if len(ids) > 0 {
			sel.Home = ids[0]
		}
	case "transportation":
		sel.Transportation = ids
	case "debt":
		sel.Debt = ids
	case "regular_spending":
		sel.RegularSpending = ids
	case "subscriptions":
		sel.Subscriptions = ids
	case "less_frequent":
		sel.LessFrequent = ids
	case "goals":
		sel.Goals = ids
	case "fun_spending":
		sel.FunSpending = ids
	}
}
