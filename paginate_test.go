package dashgrid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func numbered(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{"id": i + 1}
	}
	return out
}

func TestPaginate(t *testing.T) {
	records := numbered(25)

	tests := []struct {
		page, size int
		want       []string
		pages      int
	}{
		{1, 10, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, 3},
		{3, 10, []string{"21", "22", "23", "24", "25"}, 3},
		{4, 10, []string{}, 3},
		{999, 10, []string{}, 3},
		{0, 10, []string{}, 3},
		{-1, 10, []string{}, 3},
		{1, 25, ids(records), 1},
		{2, 24, []string{"25"}, 2},
	}
	for _, tt := range tests {
		got, pages, err := Paginate(records, tt.page, tt.size)
		if err != nil {
			t.Fatalf("page %d size %d: %v", tt.page, tt.size, err)
		}
		if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
			t.Errorf("page %d size %d (-want +got):\n%s", tt.page, tt.size, diff)
		}
		if pages != tt.pages {
			t.Errorf("page %d size %d: expected %d pages, got %d", tt.page, tt.size, tt.pages, pages)
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, pages, err := Paginate([]Record{}, 1, 10)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if len(got) != 0 || pages != 0 {
		t.Errorf("Expected empty window and 0 pages, got %d rows and %d pages", len(got), pages)
	}
}

func TestPaginateInvalidSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		_, _, err := Paginate(numbered(3), 1, size)
		if !errors.Is(err, ErrInvalidPageSize) {
			t.Errorf("size %d: expected ErrInvalidPageSize, got %v", size, err)
		}
	}
}

// Re-paginating the first window with the same size is a no-op.
func TestPaginateIdempotentFirstPage(t *testing.T) {
	for _, n := range []int{0, 3, 10, 11, 57} {
		records := numbered(n)
		first, _, err := Paginate(records, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		again, _, err := Paginate(first, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(ids(first), ids(again)); diff != "" {
			t.Errorf("n=%d (-first +again):\n%s", n, diff)
		}
	}
}

func TestPaginateOutOfRangeCountsPages(t *testing.T) {
	for _, n := range []int{1, 10, 11, 95} {
		got, pages, err := Paginate(numbered(n), 999, 10)
		if err != nil {
			t.Fatal(err)
		}
		want := (n + 9) / 10
		if len(got) != 0 || pages != want {
			t.Errorf("n=%d: expected empty window and %d pages, got %d rows and %d pages", n, want, len(got), pages)
		}
	}
}

func TestPaginateHugePageSize(t *testing.T) {
	for _, size := range []int{math.MaxInt, math.MaxInt - 1} {
		got, pages, err := Paginate(numbered(3), 1, size)
		if err != nil {
			t.Fatalf("size %d: unexpected error %v", size, err)
		}
		if len(got) != 3 || pages != 1 {
			t.Errorf("size %d: expected 3 rows on 1 page, got %d rows on %d pages", size, len(got), pages)
		}
	}
}

func TestPageRequestOffset(t *testing.T) {
	for _, tt := range []struct{ page, size, want int }{{1, 10, 0}, {3, 25, 50}, {0, 10, 0}} {
		if got := (PageRequest{Number: tt.page, Size: tt.size}).Offset(); got != tt.want {
			t.Errorf("page %d size %d: expected offset %d, got %d", tt.page, tt.size, tt.want, got)
		}
	}
}
