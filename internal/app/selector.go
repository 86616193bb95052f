package app

import (
	"math/rand/v2"

	"github.com/jsamuelsen/quote-card-bot/internal/domain"
)

// SelectQuote draws one entry uniformly at random.
// The set's ordering plus the generator's seed fully determine the pick.
func SelectQuote(set domain.QuoteSet, rng *rand.Rand) (domain.QuoteEntry, error) {
	if len(set) == 0 {
		return domain.QuoteEntry{}, domain.NewValidationError("quotes", "quote set is empty")
	}

	return set[rng.IntN(len(set))], nil
}
