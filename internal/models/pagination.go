package models

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized page request; Number and Limit are always positive
// and Limit never exceeds MaxLimit.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

// NewPage parses raw page/limit query values. Missing, non-numeric and
// non-positive values fall back to DefaultPage and DefaultLimit.
func NewPage(page, limit string) Page {
	return Page{
		Number: positiveOr(page, DefaultPage),
		Limit:  positiveOr(limit, DefaultLimit),
	}.Normalize()
}

// Normalize applies the same defaults to an already numeric page.
func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip is the number of records before this page. It saturates at
// math.MaxInt instead of overflowing, so a huge page number yields an
// empty page.
func (p Page) Skip() int {
	p = p.Normalize()
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
