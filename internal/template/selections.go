// Package template turns setup questionnaire answers into a starting
// category taxonomy.
package template

// Selections are the answers to the setup questionnaire. Field tags let the
// struct be decoded straight from the config file's setup section.
type Selections struct {
	Name            string   `mapstructure:"name"`
	Home            string   `mapstructure:"home"`
	Household       []string `mapstructure:"household"`
	Transportation  []string `mapstructure:"transportation"`
	Debt            []string `mapstructure:"debt"`
	RegularSpending []string `mapstructure:"regular_spending"`
	Subscriptions   []string `mapstructure:"subscriptions"`
	LessFrequent    []string `mapstructure:"less_frequent"`
	Goals           []string `mapstructure:"goals"`
	FunSpending     []string `mapstructure:"fun_spending"`
}

// IDs flattens every selected option in questionnaire order.
func (s Selections) IDs() []string {
	ids := make([]string, 0, 32)
	ids = append(ids, s.Household...)
	if s.Home != "" {
		ids = append(ids, s.Home)
	}
	ids = append(ids, s.Transportation...)
	ids = append(ids, s.Debt...)
	ids = append(ids, s.RegularSpending...)
	ids = append(ids, s.Subscriptions...)
	ids = append(ids, s.LessFrequent...)
	ids = append(ids, s.Goals...)
	ids = append(ids, s.FunSpending...)
	return ids
}

// StepMode says whether a step takes one answer or many.
type StepMode string

// Step modes.
const (
	ModeSingle StepMode = "single"
	ModeMulti  StepMode = "multi"
)

// Option is one answer to a step.
type Option struct {
	ID    string
	Label string
}

// Step is one questionnaire question.
type Step struct {
	Key      string
	Title    string
	SkipText string
	Mode     StepMode
	Options  []Option
}

// Steps is the questionnaire in presentation order.
var Steps = []Step{
	{
		Key:   "household",
		Title: "Who's in your household?",
		Mode:  ModeMulti,
		Options: []Option{
			{ID: "myself", Label: "Myself"},
			{ID: "partner", Label: "My partner"},
			{ID: "kids", Label: "Kids"},
			{ID: "teens", Label: "Teens"},
			{ID: "other-adults", Label: "Other adults"},
			{ID: "pets", Label: "Pets"},
		},
	},
	{
		Key:   "home",
		Title: "Tell us about your home",
		Mode:  ModeSingle,
		Options: []Option{
			{ID: "rent", Label: "I rent"},
			{ID: "own", Label: "I own"},
			{ID: "other", Label: "Other"},
		},
	},
	{
		Key:      "transportation",
		Title:    "How do you get around?",
		Mode:     ModeMulti,
		SkipText: "None of these apply to me",
		Options: []Option{
			{ID: "car", Label: "Car"},
			{ID: "rideshare", Label: "Rideshare"},
			{ID: "bike", Label: "Bike"},
			{ID: "motorcycle", Label: "Motorcycle"},
			{ID: "walk", Label: "Walk"},
			{ID: "public-transit", Label: "Public transit"},
		},
	},
	{
		Key:      "debt",
		Title:    "Do you currently have any debt?",
		Mode:     ModeMulti,
		SkipText: "I don't currently have debt",
		Options: []Option{
			{ID: "credit-card", Label: "Credit card"},
			{ID: "medical-debt", Label: "Medical debt"},
			{ID: "auto-loans", Label: "Auto loans"},
			{ID: "bnpl", Label: "Buy now, pay later"},
			{ID: "student-loans", Label: "Student loans"},
			{ID: "personal-loans", Label: "Personal loans"},
		},
	},
	{
		Key:      "regular_spending",
		Title:    "Which of these do you regularly spend money on?",
		Mode:     ModeMulti,
		SkipText: "None of these apply to me",
		Options: []Option{
			{ID: "groceries", Label: "Groceries"},
			{ID: "tv-phone-internet", Label: "TV, phone or internet"},
			{ID: "personal-care", Label: "Personal care"},
			{ID: "clothing", Label: "Clothing"},
			{ID: "self-storage", Label: "Self storage"},
		},
	},
	{
		Key:      "subscriptions",
		Title:    "Which of these subscriptions do you have?",
		Mode:     ModeMulti,
		SkipText: "I don't subscribe to any of these",
		Options: []Option{
			{ID: "music", Label: "Music"},
			{ID: "tv-streaming", Label: "TV streaming"},
			{ID: "fitness", Label: "Fitness"},
			{ID: "other-subs", Label: "Other subscriptions"},
		},
	},
	{
		Key:      "less_frequent",
		Title:    "What less frequent expenses do you need to prepare for?",
		Mode:     ModeMulti,
		SkipText: "None of these apply to me",
		Options: []Option{
			{ID: "cc-fees", Label: "Annual credit card fees"},
			{ID: "medical-expenses", Label: "Medical expenses"},
			{ID: "taxes", Label: "Taxes or other fees"},
		},
	},
	{
		Key:      "goals",
		Title:    "What goals do you want to prioritize?",
		Mode:     ModeMulti,
		SkipText: "I don't save for any of these",
		Options: []Option{
			{ID: "vacation", Label: "Dream vacation"},
			{ID: "new-baby", Label: "New baby"},
			{ID: "new-car", Label: "New car"},
			{ID: "emergency-fund", Label: "Emergency fund"},
			{ID: "new-home", Label: "New home"},
			{ID: "retirement", Label: "Retirement or investments"},
			{ID: "wedding", Label: "Wedding"},
		},
	},
	{
		Key:   "fun_spending",
		Title: "What else do you want to include in your plan?",
		Mode:  ModeMulti,
		Options: []Option{
			{ID: "dining-out", Label: "Dining out"},
			{ID: "holidays-gifts", Label: "Holidays & gifts"},
			{ID: "entertainment", Label: "Entertainment"},
			{ID: "decor-garden", Label: "Decor & garden"},
			{ID: "hobbies", Label: "Hobbies"},
			{ID: "my-spending-money", Label: "My spending money"},
			{ID: "charity", Label: "Charity"},
			{ID: "their-spending-money", Label: "Their spending money"},
		},
	},
}

// UnknownOptions lists selected IDs that no step offers.
func UnknownOptions(s Selections) []string {
	known := make(map[string]bool, 64)
	for _, step := range Steps {
		for _, opt := range step.Options {
			known[opt.ID] = true
		}
	}
	var unknown []string
	for _, id := range s.IDs() {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
