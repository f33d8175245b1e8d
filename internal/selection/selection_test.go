package selection

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		tests := []struct {
			name string
			expr string
			max  int
			want Set
		}{
			{"single", "3", 10, Set{3}},
			{"list", "1,3,5", 10, Set{1, 3, 5}},
			{"range", "5-8", 10, Set{5, 6, 7, 8}},
			{"mixed", "1,3,5-7", 10, Set{1, 3, 5, 6, 7}},
			{"whitespace", " 1 , 3 , 5 - 7 ", 10, Set{1, 3, 5, 6, 7}},
			{"duplicates", "1,1,2,2", 10, Set{1, 2}},
			{"overlapping ranges", "1-5,3-8", 10, Set{1, 2, 3, 4, 5, 6, 7, 8}},
			{"degenerate range", "4-4", 10, Set{4}},
			{"full", "1-3", 3, Set{1, 2, 3}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Parse(tt.expr, tt.max)
				if err != nil {
					t.Fatalf("parse failed: %v", err)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			})
		}
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		a, err := Parse("5,1,3", 10)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		b, err := Parse("1,3,5", 10)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("token order should not matter: %v != %v", a, b)
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		exprs := []string{"a", "1,b", "1,,3", "1-2-3", "3-1", "-3", "1.5"}

		for _, expr := range exprs {
			_, err := Parse(expr, 10)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken for %q, got %v", expr, err)
			}
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		tests := []struct {
			expr string
			max  int
		}{
			{"0", 10},
			{"11", 10},
			{"1-5", 3},
			{"1,4", 3},
		}

		for _, tt := range tests {
			_, err := Parse(tt.expr, tt.max)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange for %q max %d, got %v", tt.expr, tt.max, err)
			}
		}
	})

	t.Run("OutOfRangePayload", func(t *testing.T) {
		_, err := Parse("1-5", 3)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("expected OutOfRangeError, got %T", err)
		}
		if oor.Index != 5 || oor.Max != 3 {
			t.Errorf("expected index 5 max 3, got index %d max %d", oor.Index, oor.Max)
		}
	})

	t.Run("EmptyExpression", func(t *testing.T) {
		for _, expr := range []string{"", "   "} {
			if _, err := Parse(expr, 10); !errors.Is(err, ErrEmptyExpression) {
				t.Errorf("expected ErrEmptyExpression for %q, got %v", expr, err)
			}
		}
	})

	t.Run("Contains", func(t *testing.T) {
		set, err := Parse("1,3,5-7", 10)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		for _, want := range []int{1, 3, 5, 6, 7} {
			if !set.Contains(want) {
				t.Errorf("set should contain %d", want)
			}
		}
		for _, miss := range []int{2, 4, 8} {
			if set.Contains(miss) {
				t.Errorf("set should not contain %d", miss)
			}
		}
	})
}
