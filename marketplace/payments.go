package marketplace

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// baseBlockHeight is the simulated Solana block height of the first
// transaction; each payment advances it by one.
const baseBlockHeight = 287_450_000

// treasuryWallet receives all marketplace payments.
const treasuryWallet = "marketplace_treasury"

// Transaction is one confirmed (simulated) Solana payment.
type Transaction struct {
	TxHash            string    `json:"tx_hash"`
	AmountSOL         float64   `json:"amount_sol"`
	AmountUSD         float64   `json:"amount_usd"`
	FromWallet        string    `json:"from_wallet"`
	ToWallet          string    `json:"to_wallet"`
	AgentID           string    `json:"agent_id"`
	Status            string    `json:"status"`
	BlockHeight       int64     `json:"block_height"`
	Timestamp         time.Time `json:"timestamp"`
	PlatformFeeSOL    float64   `json:"platform_fee_sol"`
	CreatorEarningSOL float64   `json:"creator_earning_sol"`
}

// PaymentProcessor simulates Solana payments for the demo marketplace.
// No blockchain is involved: every payment confirms immediately with a
// synthetic transaction hash and block height.
type PaymentProcessor struct {
	solPriceUSD float64
	platformFee float64

	mu           sync.RWMutex
	transactions []*Transaction
}

// NewPaymentProcessor creates a payment processor with the given fixed
// SOL/USD rate and platform fee fraction.
func NewPaymentProcessor(solPriceUSD, platformFee float64) *PaymentProcessor {
	return &PaymentProcessor{
		solPriceUSD: solPriceUSD,
		platformFee: platformFee,
	}
}

// SOLPriceUSD returns the fixed exchange rate.
func (p *PaymentProcessor) SOLPriceUSD() float64 { return p.solPriceUSD }

// PlatformFee returns the platform fee fraction.
func (p *PaymentProcessor) PlatformFee() float64 { return p.platformFee }

// ProcessPayment confirms a payment of amountSOL from userWallet for the
// given agent and records the transaction.
func (p *PaymentProcessor) ProcessPayment(ctx context.Context, amountSOL float64, userWallet, agentID string) (*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tx := &Transaction{
		TxHash:            "Sol" + txHashSuffix(),
		AmountSOL:         amountSOL,
		AmountUSD:         amountSOL * p.solPriceUSD,
		FromWallet:        userWallet,
		ToWallet:          treasuryWallet,
		AgentID:           agentID,
		Status:            "confirmed",
		BlockHeight:       baseBlockHeight + int64(len(p.transactions)),
		Timestamp:         time.Now(),
		PlatformFeeSOL:    amountSOL * p.platformFee,
		CreatorEarningSOL: amountSOL * (1 - p.platformFee),
	}

	p.transactions = append(p.transactions, tx)
	return tx, nil
}

// Restore seeds the ledger with previously persisted transactions, in
// their original order. Used when warming up from the store.
func (p *PaymentProcessor) Restore(txs []*Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transactions = append(p.transactions, txs...)
}

// Recent returns up to limit transactions, newest first.
func (p *PaymentProcessor) Recent(limit int) []*Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.transactions)
	if limit > n {
		limit = n
	}
	out := make([]*Transaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, p.transactions[i])
	}
	return out
}

// TotalRevenueSOL sums all recorded payments.
func (p *PaymentProcessor) TotalRevenueSOL() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var total float64
	for _, tx := range p.transactions {
		total += tx.AmountSOL
	}
	return total
}

// Count returns the number of recorded transactions.
func (p *PaymentProcessor) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.transactions)
}

// txHashSuffix produces the 16 hex characters after the "Sol" prefix.
func txHashSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
