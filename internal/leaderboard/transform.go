package leaderboard

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	DefaultTopN = 10

	usernameMask        = "***"
	maskKeepPrefixRunes = 2
	maskKeepSuffixRunes = 2
)

var half = decimal.New(5, -1)

// Policy controls which affiliates make it onto the board.
type Policy struct {
	TopN int
	// ExcludedUsernames are matched as case-insensitive substrings
	ExcludedUsernames []string
}

type rankedAffiliate struct {
	username string
	amount   decimal.Decimal
}

// Rank turns the upstream affiliates into the served leaderboard: invalid and
// excluded records are dropped, the rest is sorted by wagered amount, cut to
// TopN, the first two places are swapped and usernames are masked.
func Rank(affiliates []Affiliate, policy Policy) []Entry {
	ranked := filterAffiliates(affiliates, policy.ExcludedUsernames)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].amount.GreaterThan(ranked[j].amount)
	})

	if policy.TopN > 0 && len(ranked) > policy.TopN {
		ranked = ranked[:policy.TopN]
	}

	// The runner-up is displayed first on purpose.
	if len(ranked) >= 2 {
		ranked[0], ranked[1] = ranked[1], ranked[0]
	}

	entries := make([]Entry, 0, len(ranked))
	for _, r := range ranked {
		wagered := RoundAmount(r.amount)
		entries = append(entries, Entry{
			Username:      MaskUsername(r.username),
			Wagered:       wagered,
			WeightedWager: wagered,
		})
	}
	return entries
}

func filterAffiliates(affiliates []Affiliate, excluded []string) []rankedAffiliate {
	lowered := make([]string, 0, len(excluded))
	for _, e := range excluded {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			lowered = append(lowered, e)
		}
	}

	ranked := make([]rankedAffiliate, 0, len(affiliates))
	for _, a := range affiliates {
		username, ok := a.ParseUsername()
		if !ok {
			continue
		}
		amount, ok := a.ParseWageredAmount()
		if !ok {
			continue
		}
		if isExcluded(username, lowered) {
			continue
		}
		ranked = append(ranked, rankedAffiliate{username: username, amount: amount})
	}
	return ranked
}

func isExcluded(username string, lowered []string) bool {
	name := strings.ToLower(username)
	for _, e := range lowered {
		if strings.Contains(name, e) {
			return true
		}
	}
	return false
}

// MaskUsername keeps the first and last two characters and replaces the rest
// with a fixed mask. Names of four characters or fewer are returned as is.
func MaskUsername(username string) string {
	if utf8.RuneCountInString(username) <= maskKeepPrefixRunes+maskKeepSuffixRunes {
		return username
	}
	runes := []rune(username)
	return string(runes[:maskKeepPrefixRunes]) + usernameMask + string(runes[len(runes)-maskKeepSuffixRunes:])
}

// RoundAmount rounds half up to the nearest integer.
func RoundAmount(amount decimal.Decimal) int64 {
	return amount.Add(half).Floor().IntPart()
}
