// Package economy implements the currency ledger for the single-authority
// server: balances live in process and every transfer is atomic under one
// mutex.
package economy

import (
	"fmt"
	"sync"

	"github.com/tgray07/duelcore/internal/models"
)

// Memory is a mutex-guarded ledger.
type Memory struct {
	currency string

	mu       sync.Mutex
	balances map[models.ParticipantID]int64
}

// NewMemory creates an empty ledger. The currency name is used by Format.
func NewMemory(currency string) *Memory {
	if currency == "" {
		currency = "coins"
	}
	return &Memory{
		currency: currency,
		balances: make(map[models.ParticipantID]int64),
	}
}

// Credit adds funds to an account, creating it if needed.
func (m *Memory) Credit(id models.ParticipantID, amount int64) {
	if amount <= 0 {
		return
	}
	m.mu.Lock()
	m.balances[id] += amount
	m.mu.Unlock()
}

// Balance returns the current balance.
func (m *Memory) Balance(id models.ParticipantID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[id]
}

func (m *Memory) HasBalance(id models.ParticipantID, amount int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[id] >= amount
}

// Withdraw removes funds; false means insufficient balance and no mutation.
func (m *Memory) Withdraw(id models.ParticipantID, amount int64) bool {
	if amount < 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[id] < amount {
		return false
	}
	m.balances[id] -= amount
	return true
}

func (m *Memory) Deposit(id models.ParticipantID, amount int64) bool {
	if amount < 0 {
		return false
	}
	m.mu.Lock()
	m.balances[id] += amount
	m.mu.Unlock()
	return true
}

func (m *Memory) Format(amount int64) string {
	return fmt.Sprintf("%d %s", amount, m.currency)
}
