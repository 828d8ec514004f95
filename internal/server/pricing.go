package server

import "net/http"

// PricingTier describes one marketplace plan. PriceMonthly, CallsPerMonth,
// and RatePerMinute are numbers for metered tiers and strings ("custom",
// "unlimited") for the enterprise tier, so they marshal as the marketplace
// listing shows them.
type PricingTier struct {
	Name          string   `json:"name"`
	PriceMonthly  any      `json:"price_monthly"`
	CallsPerMonth any      `json:"calls_per_month"`
	RatePerMinute any      `json:"rate_per_minute"`
	Endpoints     []string `json:"endpoints"`
	Features      []string `json:"features"`
	OveragePrice  *float64 `json:"overage_price"`
}

func price(v float64) *float64 { return &v }

var allEndpoints = []string{"extract", "summarize", "sentiment", "seo", "analyze"}

var pricingTiers = map[string]PricingTier{
	"free": {
		Name:          "Basic (Free)",
		PriceMonthly:  0,
		CallsPerMonth: 100,
		RatePerMinute: 5,
		Endpoints:     []string{"extract"},
		Features: []string{
			"Content extraction from any URL",
			"Basic metadata (title, author, date)",
			"Rate limited to 5 requests/minute",
		},
		OveragePrice: nil,
	},
	"starter": {
		Name:          "Starter",
		PriceMonthly:  9.99,
		CallsPerMonth: 2500,
		RatePerMinute: 10,
		Endpoints:     allEndpoints,
		Features: []string{
			"All 5 endpoints",
			"AI summarization (4 formats)",
			"Sentiment analysis",
			"SEO metadata extraction",
			"Full analysis endpoint",
			"Standard processing speed",
			"10 requests/minute",
		},
		OveragePrice: price(0.005),
	},
	"pro": {
		Name:          "Pro",
		PriceMonthly:  29.99,
		CallsPerMonth: 15000,
		RatePerMinute: 30,
		Endpoints:     allEndpoints,
		Features: []string{
			"Everything in Starter",
			"Priority processing speed",
			"30 requests/minute",
			"Webhook support (coming soon)",
			"Email support",
		},
		OveragePrice: price(0.003),
	},
	"business": {
		Name:          "Business",
		PriceMonthly:  99.99,
		CallsPerMonth: 75000,
		RatePerMinute: 60,
		Endpoints:     allEndpoints,
		Features: []string{
			"Everything in Pro",
			"Fastest processing speed",
			"60 requests/minute",
			"Bulk/batch processing",
			"Dedicated support",
			"Custom integrations",
		},
		OveragePrice: price(0.002),
	},
	"enterprise": {
		Name:          "Enterprise",
		PriceMonthly:  "custom",
		CallsPerMonth: "unlimited",
		RatePerMinute: "unlimited",
		Endpoints:     allEndpoints,
		Features: []string{
			"Everything in Business",
			"Unlimited API calls",
			"SLA guarantee",
			"Custom endpoints",
			"White-label option",
			"Dedicated account manager",
		},
		OveragePrice: nil,
	},
}

// TierInfo returns the named pricing tier, falling back to free for unknown
// names.
func TierInfo(name string) PricingTier {
	if tier, ok := pricingTiers[name]; ok {
		return tier
	}
	return pricingTiers["free"]
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tiers": pricingTiers,
	})
}
