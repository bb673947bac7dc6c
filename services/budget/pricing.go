package budget

// Price is the cost of 1K tokens for one model
type Price struct {
	PromptPer1K     Money
	CompletionPer1K Money
}

// PriceTable maps model names to prices
type PriceTable map[string]Price

// fallbackPrice is charged for models missing from the table so unknown models never look free
var fallbackPrice = Price{PromptPer1K: 2_500, CompletionPer1K: 10_000}

// DefaultPriceTable returns list prices for the models the adapters ship with
func DefaultPriceTable() PriceTable {
	return PriceTable{
		"gpt-4o-mini":      {PromptPer1K: 150, CompletionPer1K: 600},
		"gpt-4o":           {PromptPer1K: 2_500, CompletionPer1K: 10_000},
		"gpt-4.1-mini":     {PromptPer1K: 400, CompletionPer1K: 1_600},
		"gemini-2.0-flash": {PromptPer1K: 100, CompletionPer1K: 400},
		"gemini-1.5-flash": {PromptPer1K: 75, CompletionPer1K: 300},
		"gemini-2.5-flash": {PromptPer1K: 300, CompletionPer1K: 2_500},
	}
}

// Lookup returns the price for model
func (t PriceTable) Lookup(model string) (Price, bool) {
	p, ok := t[model]
	return p, ok
}

// Cost returns the charge for a call, rounded up to the next micro-dollar
func (t PriceTable) Cost(model string, promptTokens, completionTokens int) Money {
	p, ok := t.Lookup(model)
	if !ok {
		p = fallbackPrice
	}
	if promptTokens < 0 {
		promptTokens = 0
	}
	if completionTokens < 0 {
		completionTokens = 0
	}

	scaled := Money(promptTokens)*p.PromptPer1K + Money(completionTokens)*p.CompletionPer1K
	return (scaled + 999) / 1000
}
