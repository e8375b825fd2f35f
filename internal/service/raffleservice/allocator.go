package raffleservice

import (
	"fmt"
	"sort"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

// Selection asks for Quantity random numbers, or for exactly the listed
// Numbers when any are given.
type Selection struct {
	Quantity int   `json:"quantity"`
	Numbers  []int `json:"numbers,omitempty"`
}

func allocate(capacity int, taken index, sel Selection, intn func(int) int) ([]int, error) {
	if len(sel.Numbers) > 0 {
		return allocateExplicit(capacity, taken, sel)
	}
	return allocateRandom(capacity, taken, sel.Quantity, intn)
}

func allocateExplicit(capacity int, taken index, sel Selection) ([]int, error) {
	if sel.Quantity != len(sel.Numbers) {
		return nil, fmt.Errorf("%w: quantity %d, selected %d", ErrQuantityMismatch, sel.Quantity, len(sel.Numbers))
	}

	seen := make(map[int]struct{}, len(sel.Numbers))
	out := make([]int, 0, len(sel.Numbers))
	for _, n := range sel.Numbers {
		switch {
		case n < 1 || n > capacity:
			return nil, fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidNumber, n, capacity)
		case taken.has(n):
			return nil, fmt.Errorf("%w: %s is taken", ErrInvalidNumber, domain.FormatNumber(n))
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: %s selected twice", ErrInvalidNumber, domain.FormatNumber(n))
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// allocateRandom runs a partial Fisher-Yates shuffle over the free pool, so
// every remaining number is equally likely at each step.
func allocateRandom(capacity int, taken index, q int, intn func(int) int) ([]int, error) {
	if q <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}
	available := capacity - len(taken)
	if q > available {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientAvailability, q, max(available, 0))
	}

	pool := make([]int, 0, capacity)
	for n := 1; n <= capacity; n++ {
		if !taken.has(n) {
			pool = append(pool, n)
		}
	}
	for i := 0; i < q; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	out := append([]int(nil), pool[:q]...)
	sort.Ints(out)
	return out, nil
}
