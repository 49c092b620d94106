package leaderboard

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var maxWager = decimal.NewFromInt(math.MaxInt64)

// Entry is a single row of the served leaderboard.
type Entry struct {
	Username      string `json:"username"`
	Wagered       int64  `json:"wagered"`
	WeightedWager int64  `json:"weightedWager"`
}

// Affiliate is one record of the upstream affiliates payload. Both fields are
// kept raw because the upstream sends the amount either as a string or as a
// number, and records with a malformed username must be dropped rather than
// fail the whole payload.
type Affiliate struct {
	Username      json.RawMessage `json:"username"`
	WageredAmount json.RawMessage `json:"wagered_amount"`
}

// NewAffiliate builds an affiliate record the way the upstream would send it
// with a string amount. Mostly useful in tests and fixtures.
func NewAffiliate(username, wageredAmount string) Affiliate {
	u, _ := json.Marshal(username)
	a, _ := json.Marshal(wageredAmount)
	return Affiliate{Username: u, WageredAmount: a}
}

// ParseUsername returns the username if it is a non-empty JSON string.
func (a Affiliate) ParseUsername() (string, bool) {
	if len(a.Username) == 0 {
		return "", false
	}
	var username string
	if err := json.Unmarshal(a.Username, &username); err != nil {
		return "", false
	}
	return username, username != ""
}

// ParseWageredAmount accepts a JSON number or a string holding a finite
// decimal number. Negative amounts and amounts that do not round into an
// int64 are rejected.
func (a Affiliate) ParseWageredAmount() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(string(a.WageredAmount))
	if raw == "" || raw == "null" {
		return decimal.Zero, false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(a.WageredAmount, &s); err != nil {
			return decimal.Zero, false
		}
		raw = strings.TrimSpace(s)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if amount.IsNegative() || amount.Add(half).Floor().GreaterThan(maxWager) {
		return decimal.Zero, false
	}
	return amount, true
}
