package budget

import "fmt"

// Money is a fixed-point amount in micro-dollars (1 USD = 1,000,000)
type Money int64

const (
	MicrosPerCent   Money = 10_000
	MicrosPerDollar Money = 1_000_000
)

// FromCents converts a whole-cent amount to Money
func FromCents(cents int64) Money {
	return Money(cents) * MicrosPerCent
}

// Cents returns the amount in whole cents, rounded down
func (m Money) Cents() int64 {
	return int64(m / MicrosPerCent)
}

// Dollars returns a float for display and metrics only; never accumulate it
func (m Money) Dollars() float64 {
	return float64(m) / float64(MicrosPerDollar)
}

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%d.%06d", sign, m/MicrosPerDollar, m%MicrosPerDollar)
}
