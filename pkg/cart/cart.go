// Package cart is the client-side checkout controller: it keeps the cart in
// durable local storage, recomputes totals on every mutation, and submits the
// order payload to the lifecycle endpoints.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Line is one cart entry.
type Line struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
}

// Storage persists the cart between sessions.
type Storage interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// FileStorage keeps the cart as a JSON file.
type FileStorage struct {
	Path string
}

func (s FileStorage) Load() ([]Line, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s FileStorage) Save(lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0o644)
}

// MemoryStorage is an in-process Storage, used in tests.
type MemoryStorage struct {
	lines []Line
}

func (s *MemoryStorage) Load() ([]Line, error) { return append([]Line(nil), s.lines...), nil }
func (s *MemoryStorage) Save(lines []Line) error {
	s.lines = append([]Line(nil), lines...)
	return nil
}

// Summary is the displayed totals block.
type Summary struct {
	Subtotal    float64
	ShippingFee float64
	Total       float64
	ItemCount   int
}

// Cart accumulates lines and keeps Storage in sync after every mutation.
type Cart struct {
	mu          sync.Mutex
	storage     Storage
	lines       []Line
	shippingFee float64
	eurToXof    float64
}

func New(storage Storage, shippingFee, eurToXof float64) (*Cart, error) {
	lines, err := storage.Load()
	if err != nil {
		return nil, err
	}
	return &Cart{
		storage:     storage,
		lines:       lines,
		shippingFee: shippingFee,
		eurToXof:    eurToXof,
	}, nil
}

// Add inserts a line, or bumps the quantity when the item is already present.
func (c *Cart) Add(line Line) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ID == line.ID {
			c.lines[i].Quantity += line.Quantity
			return c.persist()
		}
	}
	c.lines = append(c.lines, line)
	return c.persist()
}

// SetQuantity updates an item's quantity; zero or below removes the line.
func (c *Cart) SetQuantity(id, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == id {
			if quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity = quantity
			}
			return c.persist()
		}
	}
	return fmt.Errorf("item %d not in cart", id)
}

func (c *Cart) Remove(id int) error {
	return c.SetQuantity(id, 0)
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	return c.persist()
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

func (c *Cart) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

func (c *Cart) summaryLocked() Summary {
	var s Summary
	for _, l := range c.lines {
		s.Subtotal += l.Price * float64(l.Quantity)
		s.ItemCount += l.Quantity
	}
	s.ShippingFee = c.shippingFee
	s.Total = s.Subtotal + c.shippingFee
	return s
}

// FormatPrice renders an EUR amount in both currencies at the fixed rate,
// e.g. "16.00€ / 10495 XOF".
func (c *Cart) FormatPrice(eur float64) string {
	return fmt.Sprintf("%.2f€ / %.0f XOF", eur, eur*c.eurToXof)
}

func (c *Cart) persist() error {
	return c.storage.Save(append([]Line(nil), c.lines...))
}
