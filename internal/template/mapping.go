package template

type categoryRef struct {
	group    string
	category string
}

func refs(group string, categories ...string) []categoryRef {
	out := make([]categoryRef, len(categories))
	for i, c := range categories {
		out[i] = categoryRef{group: group, category: c}
	}
	return out
}

// optionCategories maps a questionnaire option to the categories it implies.
var optionCategories = map[string][]categoryRef{
	"partner": refs("Personal", "Their spending money"),
	"kids":    refs("Family", "Kids activities", "School supplies"),
	"teens":   refs("Family", "Kids activities", "School supplies"),
	"pets":    refs("Family", "Pet care"),

	"rent":  refs("Housing", "Rent", "Renters insurance"),
	"own":   refs("Housing", "Mortgage", "Home insurance", "Property taxes", "Home maintenance"),
	"other": refs("Housing", "Housing"),

	"car":            refs("Transportation", "Gas/Fuel", "Car insurance", "Car maintenance"),
	"rideshare":      refs("Transportation", "Rideshare"),
	"bike":           refs("Transportation", "Bike maintenance"),
	"motorcycle":     refs("Transportation", "Motorcycle"),
	"walk":           nil,
	"public-transit": refs("Transportation", "Public transit"),

	"credit-card":    refs("Debt", "Credit card payments"),
	"medical-debt":   refs("Debt", "Medical debt payments"),
	"auto-loans":     refs("Debt", "Auto loan payments"),
	"bnpl":           refs("Debt", "Buy now, pay later"),
	"student-loans":  refs("Debt", "Student loan payments"),
	"personal-loans": refs("Debt", "Personal loan payments"),

	"groceries":         refs("Food", "Groceries"),
	"tv-phone-internet": refs("Utilities", "TV/Phone/Internet"),
	"personal-care":     refs("Personal", "Personal care"),
	"clothing":          refs("Shopping", "Clothing"),
	"self-storage":      refs("Housing", "Self storage"),

	"music":        refs("Subscriptions", "Music"),
	"tv-streaming": refs("Subscriptions", "TV streaming"),
	"fitness":      refs("Subscriptions", "Fitness"),
	"other-subs":   refs("Subscriptions", "Other subscriptions"),

	"cc-fees":          refs("Less Frequent", "Annual credit card fees"),
	"medical-expenses": refs("Less Frequent", "Medical expenses"),
	"taxes":            refs("Less Frequent", "Taxes or fees"),

	"vacation":       refs("Savings Goals", "Dream vacation"),
	"new-baby":       refs("Savings Goals", "New baby"),
	"new-car":        refs("Savings Goals", "New car"),
	"emergency-fund": refs("Savings Goals", "Emergency fund"),
	"new-home":       refs("Savings Goals", "New home"),
	"retirement":     refs("Savings Goals", "Retirement or investments"),
	"wedding":        refs("Savings Goals", "Wedding"),

	"dining-out":           refs("Food", "Dining out"),
	"holidays-gifts":       refs("Personal", "Holidays & gifts"),
	"entertainment":        refs("Entertainment", "Entertainment"),
	"decor-garden":         refs("Home", "Decor & garden"),
	"hobbies":              refs("Entertainment", "Hobbies"),
	"my-spending-money":    refs("Personal", "My spending money"),
	"charity":              refs("Personal", "Charity"),
	"their-spending-money": refs("Personal", "Their spending money"),
}

// GroupOrder is the canonical order groups are emitted in.
var GroupOrder = []string{
	"Housing",
	"Utilities",
	"Food",
	"Transportation",
	"Family",
	"Debt",
	"Shopping",
	"Subscriptions",
	"Entertainment",
	"Personal",
	"Less Frequent",
	"Savings Goals",
	"Home",
	"Miscellaneous",
}
