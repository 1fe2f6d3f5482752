package payments

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Provider charges a payment against an external processor and reports
// the outcome with a transaction reference on success.
type Provider interface {
	Charge(ctx context.Context, p *Payment) (txnRef string, ok bool, err error)
}

// StubProvider fakes a mobile-money processor. It succeeds at the given
// rate; a real integration would receive the outcome via webhook instead.
type StubProvider struct {
	SuccessRate float64
}

func NewStubProvider() *StubProvider {
	return &StubProvider{SuccessRate: 0.8}
}

func (s *StubProvider) Charge(_ context.Context, _ *Payment) (string, bool, error) {
	if rand.Float64() >= s.SuccessRate {
		return "", false, nil
	}
	return fmt.Sprintf("TXN-%s", uuid.NewString()), true, nil
}
