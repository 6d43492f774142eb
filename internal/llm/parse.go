package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Features named in parse errors.
const (
	FeatureQuickAdd    = "quick-add"
	FeatureSuggestions = "budget suggestions"
	FeatureReview      = "monthly review"
)

// ParseError reports a completion that does not match the expected contract.
type ParseError struct {
	Feature string
	Reason  string
	Raw     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %s", e.Feature, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return common.ErrExternalParse
}

// QuickAdd is a transaction described in natural language.
type QuickAdd struct {
	Amount       decimal.Decimal
	PayeeName    string
	CategoryName string
	Date         string
}

// SuggestedAllocation is one category line of a suggestion or review.
type SuggestedAllocation struct {
	CategoryID     string
	CategoryName   string
	Suggested      decimal.Decimal
	LastMonthSpent decimal.Decimal
	Reasoning      string
}

// Suggestions is the validated output of the suggestion and review features.
type Suggestions struct {
	Allocations []SuggestedAllocation
	Summary     string
}

// ParseQuickAdd validates a quick-add completion.
// amount must be a number that is still > 0 after rounding to cents,
// payeeName non-empty, categoryName a string when present, and date a
// YYYY-MM-DD calendar date.
func ParseQuickAdd(raw string) (QuickAdd, error) {
	p := parser{feature: FeatureQuickAdd, raw: raw}

	obj, err := p.object()
	if err != nil {
		return QuickAdd{}, err
	}

	amount, err := p.number(obj, "amount")
	if err != nil {
		return QuickAdd{}, err
	}
	amount = model.RoundAmount(amount)
	if !amount.IsPositive() {
		return QuickAdd{}, p.fail("amount must be at least 0.01")
	}

	payee, err := p.str(obj, "payeeName")
	if err != nil {
		return QuickAdd{}, err
	}
	payee = strings.TrimSpace(payee)
	if payee == "" {
		return QuickAdd{}, p.fail("payeeName must not be empty")
	}

	var category string
	if _, ok := obj["categoryName"]; ok {
		category, err = p.str(obj, "categoryName")
		if err != nil {
			return QuickAdd{}, err
		}
	}

	date, err := p.str(obj, "date")
	if err != nil {
		return QuickAdd{}, err
	}
	if err := model.ValidateDate(date); err != nil {
		return QuickAdd{}, p.fail("date must be a YYYY-MM-DD calendar date, got " + date)
	}

	return QuickAdd{
		Amount:       amount,
		PayeeName:    payee,
		CategoryName: strings.TrimSpace(category),
		Date:         date,
	}, nil
}

// ParseSuggestions validates a budget suggestion completion.
func ParseSuggestions(raw string) (Suggestions, error) {
	return parseAllocations(FeatureSuggestions, raw)
}

// ParseReview validates a monthly review completion.
func ParseReview(raw string) (Suggestions, error) {
	return parseAllocations(FeatureReview, raw)
}

func parseAllocations(feature, raw string) (Suggestions, error) {
	p := parser{feature: feature, raw: raw}

	obj, err := p.object()
	if err != nil {
		return Suggestions{}, err
	}

	items, ok := obj["allocations"].([]any)
	if !ok {
		return Suggestions{}, p.fail("allocations must be an array")
	}

	summary, err := p.str(obj, "summary")
	if err != nil {
		return Suggestions{}, err
	}

	out := Suggestions{
		Allocations: make([]SuggestedAllocation, 0, len(items)),
		Summary:     summary,
	}
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return Suggestions{}, p.fail(fmt.Sprintf("allocations[%d] must be an object", i))
		}
		ip := p.at(fmt.Sprintf("allocations[%d].", i))

		var a SuggestedAllocation
		if a.CategoryID, err = ip.str(entry, "categoryId"); err != nil {
			return Suggestions{}, err
		}
		if a.CategoryName, err = ip.str(entry, "categoryName"); err != nil {
			return Suggestions{}, err
		}
		if a.Suggested, err = ip.number(entry, "suggested"); err != nil {
			return Suggestions{}, err
		}
		if a.LastMonthSpent, err = ip.number(entry, "lastMonthSpent"); err != nil {
			return Suggestions{}, err
		}
		if a.Reasoning, err = ip.str(entry, "reasoning"); err != nil {
			return Suggestions{}, err
		}
		a.Suggested = model.RoundAmount(a.Suggested)
		a.LastMonthSpent = model.RoundAmount(a.LastMonthSpent)
		out.Allocations = append(out.Allocations, a)
	}

	return out, nil
}

type parser struct {
	feature string
	raw     string
	prefix  string
}

func (p parser) at(prefix string) parser {
	p.prefix = prefix
	return p
}

func (p parser) fail(reason string) error {
	return &ParseError{Feature: p.feature, Reason: reason, Raw: p.raw}
}

// object decodes the whole completion as a single JSON object.
func (p parser) object() (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(cleanMarkdownWrapper(p.raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, p.fail("invalid JSON: " + err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, p.fail("unexpected content after JSON object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, p.fail("expected a JSON object")
	}
	return obj, nil
}

func (p parser) number(obj map[string]any, key string) (decimal.Decimal, error) {
	n, ok := obj[key].(json.Number)
	if !ok {
		return decimal.Zero, p.fail(p.prefix + key + " must be a number")
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, p.fail(p.prefix + key + " is not a valid number")
	}
	return d, nil
}

func (p parser) str(obj map[string]any, key string) (string, error) {
	s, ok := obj[key].(string)
	if !ok {
		return "", p.fail(p.prefix + key + " must be a string")
	}
	return s, nil
}

// cleanMarkdownWrapper strips a surrounding ``` or ```json fence.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
