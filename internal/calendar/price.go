package calendar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidDate   = errors.New("invalid calendar date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// TotalPrice is the whole-booking price for a per-person rate.
func TotalPrice(pricePerPerson float64, travelers int) float64 {
	if travelers <= 0 || pricePerPerson <= 0 {
		return 0
	}

	return pricePerPerson * float64(travelers)
}

// ParseAmount parses a user-entered money amount such as "5000" or "5,000.50".
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount: %w", ErrInvalidAmount)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse %q: %w", s, ErrInvalidAmount)
	}

	if v < 0 {
		return 0, fmt.Errorf("negative amount %v: %w", v, ErrInvalidAmount)
	}

	return v, nil
}
