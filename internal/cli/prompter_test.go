package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "maybe\n", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).Confirm(context.Background(), "Restore checkpoint?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Restore checkpoint? [y/N]")
		})
	}
}

func TestQuestionnaire(t *testing.T) {
	// One answer line per step, in template.Steps order.
	answers := make([]string, len(template.Steps))
	for i, step := range template.Steps {
		switch step.Key {
		case "household":
			answers[i] = "1, 6"
		case "home":
			answers[i] = "9\n1" // out of range, then a valid retry
		case "regular_spending":
			answers[i] = "1,1"
		}
	}
	input := strings.Join(answers, "\n") + "\n"

	var out bytes.Buffer
	sel, err := NewPrompter(strings.NewReader(input), &out).Questionnaire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"myself", "pets"}, sel.Household)
	assert.Equal(t, "rent", sel.Home)
	assert.Equal(t, []string{"groceries"}, sel.RegularSpending)
	assert.Empty(t, sel.Debt)
	assert.Contains(t, out.String(), "Invalid choice")
	assert.Empty(t, template.UnknownOptions(sel))
}

func TestParseChoices(t *testing.T) {
	single := template.Step{Mode: template.ModeSingle, Options: []template.Option{{ID: "a"}, {ID: "b"}}}
	multi := template.Step{Mode: template.ModeMulti, Options: single.Options}

	ids, ok := parseChoices("", multi)
	assert.True(t, ok)
	assert.Empty(t, ids)

	ids, ok = parseChoices("2 1", multi)
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, ids)

	_, ok = parseChoices("1,2", single)
	assert.False(t, ok)

	_, ok = parseChoices("x", multi)
	assert.False(t, ok)

	_, ok = parseChoices("0", multi)
	assert.False(t, ok)
}
