// package selection parses human-entered index expressions like "1,3,5-10"
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrEmptyExpression indicates an empty selection string.
	ErrEmptyExpression = errors.New("empty selection expression")
	// ErrInvalidToken indicates a malformed token or an inverted range.
	ErrInvalidToken = errors.New("invalid selection token")
	// ErrOutOfRange indicates an index below 1 or above the entry count.
	ErrOutOfRange = errors.New("selection index out of range")
)

// InvalidTokenError reports the offending token of a malformed expression.
type InvalidTokenError struct {
	Token string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid selection token %q", e.Token)
}

func (e *InvalidTokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// OutOfRangeError reports an index outside [1, Max].
type OutOfRangeError struct {
	Index int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("selection index %d out of range [1, %d]", e.Index, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Set is a de-duplicated ascending sequence of 1-based indices.
type Set []int

// Contains reports whether the set includes the given 1-based index.
func (s Set) Contains(index int) bool {
	i := sort.SearchInts(s, index)
	return i < len(s) && s[i] == index
}

// Parse parses a comma-separated selection expression against the maximum
// known entry count.
//
// Each token is a positive integer or an inclusive range A-B with A <= B.
// Duplicates and overlapping ranges collapse into a single set; the result is
// ascending regardless of input order. An index exceeding maxIndex is a
// validation error, not a silent drop.
func Parse(expr string, maxIndex int) (Set, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}

	seen := make(map[int]bool)

	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, &InvalidTokenError{Token: token}
		}

		lo, hi, err := parseToken(token)
		if err != nil {
			return nil, err
		}

		if lo < 1 {
			return nil, &OutOfRangeError{Index: lo, Max: maxIndex}
		}
		if hi > maxIndex {
			return nil, &OutOfRangeError{Index: hi, Max: maxIndex}
		}

		for i := lo; i <= hi; i++ {
			seen[i] = true
		}
	}

	set := make(Set, 0, len(seen))
	for i := range seen {
		set = append(set, i)
	}
	sort.Ints(set)

	return set, nil
}

// parseToken resolves a single token to its inclusive bounds.
func parseToken(token string) (int, int, error) {
	lo, hi, isRange := strings.Cut(token, "-")
	if !isRange {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, 0, &InvalidTokenError{Token: token}
		}
		return n, n, nil
	}

	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, &InvalidTokenError{Token: token}
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, &InvalidTokenError{Token: token}
	}

	// An inverted range is malformed, not merely out of bounds
	if start > end {
		return 0, 0, &InvalidTokenError{Token: token}
	}

	return start, end, nil
}
