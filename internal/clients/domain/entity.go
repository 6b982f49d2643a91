package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a B2B client account with its loyalty statistics
type Client struct {
	ID           uint
	Name         string
	Email        string
	Tier         Tier
	TotalOrders  int
	TotalSpent   decimal.Decimal
	FirstOrderAt *time.Time
	LastOrderAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the client entity
func (c *Client) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Email == "" {
		return ErrEmailRequired
	}
	return nil
}

// NewClient creates a new client with validation. New clients always start
// at BASIC.
func NewClient(name, email string) (*Client, error) {
	client := &Client{
		Name:       name,
		Email:      email,
		Tier:       TierBasic,
		TotalSpent: decimal.Zero,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return client, nil
}

// RecordConfirmedOrder folds one confirmed order into the client's loyalty
// statistics and recomputes the tier from the updated counters. The tier
// never goes down. Callers must invoke this exactly once per confirmation;
// a second call double-counts the order.
func (c *Client) RecordConfirmedOrder(orderTotal decimal.Decimal, now time.Time) {
	c.TotalOrders++
	c.TotalSpent = c.TotalSpent.Add(orderTotal)
	c.LastOrderAt = &now
	if c.FirstOrderAt == nil {
		c.FirstOrderAt = &now
	}

	if candidate := TierFor(c.TotalOrders, c.TotalSpent); candidate.Outranks(c.Tier) {
		c.Tier = candidate
	}
	c.UpdatedAt = now
}
