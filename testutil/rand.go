package testutil

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/brianvoe/gofakeit/v7"
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns empty string
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	randomString := make([]byte, length)
	for i := range randomString {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		randomString[i] = charset[num.Int64()]
	}

	return string(randomString), nil
}

// UpstreamAffiliate mirrors a record of the affiliates API, including fields
// the proxy ignores.
type UpstreamAffiliate struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	WageredAmount string `json:"wagered_amount"`
	Referrals     int    `json:"referrals"`
}

// RandomAffiliates returns n affiliates with unique usernames longer than
// four characters and amounts between 0 and 100000.
func RandomAffiliates(n int) []UpstreamAffiliate {
	affiliates := make([]UpstreamAffiliate, 0, n)
	for i := range n {
		affiliates = append(affiliates, UpstreamAffiliate{
			ID:            gofakeit.UUID(),
			Username:      fmt.Sprintf("%s_%d", gofakeit.Username(), i),
			WageredAmount: fmt.Sprintf("%.2f", gofakeit.Float64Range(0, 100000)),
			Referrals:     gofakeit.IntRange(0, 50),
		})
	}
	return affiliates
}

// AffiliatesPayload encodes affiliates as the upstream response body.
func AffiliatesPayload(affiliates []UpstreamAffiliate) []byte {
	body, err := json.Marshal(map[string]any{"affiliates": affiliates})
	if err != nil {
		panic(err)
	}
	return body
}
