package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libbchsend-go/tx"
)

// recipientsFlag collects repeated --to address:amount flags. The amount is
// split off at the last ':' since CashAddr addresses carry a prefix.
type recipientsFlag struct {
	addresses []string
	amounts   []decimal.Decimal
}

func (r *recipientsFlag) String() string {
	parts := make([]string, len(r.addresses))
	for i := range r.addresses {
		parts[i] = r.addresses[i] + ":" + r.amounts[i].String()
	}
	return strings.Join(parts, ",")
}

func (r *recipientsFlag) Set(v string) error {
	i := strings.LastIndex(v, ":")
	if i <= 0 || i == len(v)-1 {
		return fmt.Errorf("want address:amount, got %q", v)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(v[i+1:]))
	if err != nil {
		return fmt.Errorf("amount %q: %w", v[i+1:], err)
	}
	r.addresses = append(r.addresses, strings.TrimSpace(v[:i]))
	r.amounts = append(r.amounts, amount)
	return nil
}

func (r *recipientsFlag) request() tx.TransferRequest {
	return tx.TransferRequest{Addresses: r.addresses, Amounts: r.amounts}
}
