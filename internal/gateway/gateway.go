// Package gateway defines the payment processor boundary. The orchestrator
// talks to a Gateway for every charge; in production this is a real payment
// provider client, in development and tests it is the mock in this package.
package gateway

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/gigmarket-payments/internal/config"
)

// DeclineReason identifies why the processor refused a charge
type DeclineReason string

const (
	DeclineInsufficientFunds DeclineReason = "INSUFFICIENT_FUNDS_UPSTREAM"
	DeclineCardDeclined      DeclineReason = "CARD_DECLINED"
	DeclineNetworkError      DeclineReason = "NETWORK_ERROR"
	DeclineGatewayTimeout    DeclineReason = "GATEWAY_TIMEOUT"
)

var declineReasons = []DeclineReason{
	DeclineInsufficientFunds,
	DeclineCardDeclined,
	DeclineNetworkError,
	DeclineGatewayTimeout,
}

// Result is the processor's answer to a charge attempt
type Result struct {
	Approved bool
	Reason   DeclineReason // Set when Approved is false
}

// Gateway is the narrow interface the orchestrator depends on. The call may
// be slow and its outcome is not deterministic; callers must not assume
// otherwise.
type Gateway interface {
	Process(ctx context.Context, amount int64) (Result, error)
}

// MockGateway simulates an external payment processor: a configurable round
// trip latency and a probabilistic decline with one of a small fixed set of
// reasons.
type MockGateway struct {
	latency      time.Duration
	approvalRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockGateway creates a mock gateway from configuration, seeded from the
// current time
func NewMockGateway(cfg *config.GatewayConfig) *MockGateway {
	return NewMockGatewayWithSource(cfg, rand.NewSource(time.Now().UnixNano()))
}

// NewMockGatewayWithSource creates a mock gateway with an explicit randomness
// source so tests can make the outcome deterministic
func NewMockGatewayWithSource(cfg *config.GatewayConfig, src rand.Source) *MockGateway {
	return &MockGateway{
		latency:      cfg.Latency,
		approvalRate: cfg.ApprovalRate,
		rng:          rand.New(src),
	}
}

// Process simulates submitting a charge to the processor. The simulated
// latency is context-aware: cancellation during the round trip returns the
// context error and no result.
func (g *MockGateway) Process(ctx context.Context, amount int64) (Result, error) {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	var reason DeclineReason
	if roll >= g.approvalRate {
		reason = declineReasons[g.rng.Intn(len(declineReasons))]
	}
	g.mu.Unlock()

	if reason != "" {
		return Result{Approved: false, Reason: reason}, nil
	}
	return Result{Approved: true}, nil
}
