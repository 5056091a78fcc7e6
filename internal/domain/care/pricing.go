package care

import "time"

const day = 24 * time.Hour

// Days returns the number of calendar days covered by the care, both ends
// included.
func (c *Care) Days() int {
	return int(c.careEnd.Sub(c.careStart)/day) + 1
}

// TotalPriceCents returns the daily price multiplied by the covered days.
func (c *Care) TotalPriceCents() int64 {
	return c.dailyPriceCents * int64(c.Days())
}
