package dashgrid

import "fmt"

// Paginate returns the 1-indexed page window of records and the page count.
// Pages outside 1..totalPages yield an empty window. totalPages is zero for
// an empty input.
func Paginate[R Fielder](records []R, page, pageSize int) ([]R, int, error) {
	if pageSize <= 0 {
		return nil, 0, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}

	total := len(records)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	if page < 1 || page > totalPages {
		return []R{}, totalPages, nil
	}

	start := (page - 1) * pageSize
	end := start + min(pageSize, total-start)

	window := make([]R, end-start)
	copy(window, records[start:end])
	return window, totalPages, nil
}

// Offset converts a page window to the offset/limit pair used by list
// endpoints.
func (p PageRequest) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}
