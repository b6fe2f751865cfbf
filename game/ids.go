package game

import "strconv"

// IDGen hands out entity identifiers. A match only calls it from its own
// goroutine.
type IDGen interface {
	Next(prefix string) string
}

// Counter is a monotonic IDGen producing "prefix-1", "prefix-2", ...
// The sequence is shared across prefixes.
type Counter struct {
	n uint64
}

func (c *Counter) Next(prefix string) string {
	c.n++
	return prefix + "-" + strconv.FormatUint(c.n, 10)
}
