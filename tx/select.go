package tx

import (
	"fmt"
	"strings"
)

// Selector picks the single UTXO that funds a send. target is the satoshi
// amount the input must cover (recipients plus fee); strategies that do not
// need it ignore it.
type Selector interface {
	Select(candidates []*UTXO, target uint64) (*UTXO, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(candidates []*UTXO, target uint64) (*UTXO, error)

// Select calls f.
func (f SelectorFunc) Select(candidates []*UTXO, target uint64) (*UTXO, error) {
	return f(candidates, target)
}

// Selector names accepted by SelectorByName.
const (
	SelectorLargest  = "largest"
	SelectorSmallest = "smallest"
	SelectorExact    = "exact"
)

var (
	// LargestFirst selects the UTXO with the greatest amount.
	LargestFirst Selector = SelectorFunc(func(c []*UTXO, _ uint64) (*UTXO, error) {
		return SelectUTXO(c)
	})

	// SmallestCovering selects the smallest UTXO whose amount is at least the
	// target. Ties go to the earliest candidate.
	SmallestCovering Selector = SelectorFunc(selectSmallestCovering)

	// ExactMatch selects the first UTXO whose amount equals the target and
	// falls back to SmallestCovering.
	ExactMatch Selector = SelectorFunc(selectExactMatch)
)

// SelectUTXO returns the candidate with the strictly greatest Amount. When
// several share the maximum, the first in input order wins. Nil entries are
// skipped.
func SelectUTXO(candidates []*UTXO) (*UTXO, error) {
	var best *UTXO
	for _, u := range candidates {
		if u == nil {
			continue
		}
		if best == nil || u.Amount > best.Amount {
			best = u
		}
	}
	if best == nil {
		return nil, ErrNoSpendableFunds
	}
	return best, nil
}

func selectSmallestCovering(candidates []*UTXO, target uint64) (*UTXO, error) {
	var best *UTXO
	seen := false
	for _, u := range candidates {
		if u == nil {
			continue
		}
		seen = true
		if u.Amount < target {
			continue
		}
		if best == nil || u.Amount < best.Amount {
			best = u
		}
	}
	if !seen {
		return nil, ErrNoSpendableFunds
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no single UTXO covers %d sat", ErrInsufficientFunds, target)
	}
	return best, nil
}

func selectExactMatch(candidates []*UTXO, target uint64) (*UTXO, error) {
	for _, u := range candidates {
		if u != nil && u.Amount == target {
			return u, nil
		}
	}
	return selectSmallestCovering(candidates, target)
}

// SelectorByName resolves a selector name. The empty string means largest.
func SelectorByName(name string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SelectorLargest:
		return LargestFirst, nil
	case SelectorSmallest:
		return SmallestCovering, nil
	case SelectorExact:
		return ExactMatch, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelector, name)
	}
}
