package store

import (
	"fmt"
	"sort"
	"strconv"

	"moneyminder/internal/core"
)

// SortNewestFirst orders transactions by date descending, breaking ties by
// id descending so paging is stable.
func SortNewestFirst(txns []core.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Date != txns[j].Date {
			return txns[i].Date > txns[j].Date
		}
		return txns[i].TransactionID > txns[j].TransactionID
	})
}

// ParseOffsetCursor decodes the offset cursors used by the memory and SQL
// backends. An empty cursor is offset zero.
func ParseOffsetCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	return n, nil
}

// TrimPage builds a page from a query that asked for size+1 rows starting
// at offset. The extra row only signals that more data is available.
func TrimPage(rows []core.Transaction, offset, size int) TransactionPage {
	if rows == nil {
		rows = []core.Transaction{}
	}
	if len(rows) <= size {
		return TransactionPage{Items: rows}
	}
	return TransactionPage{Items: rows[:size], NextCursor: strconv.Itoa(offset + size)}
}

// PageSlice cuts one page out of an already sorted result set.
func PageSlice(all []core.Transaction, req PageRequest) (TransactionPage, error) {
	offset, err := ParseOffsetCursor(req.Cursor)
	if err != nil {
		return TransactionPage{}, err
	}
	size := req.Size()
	if offset >= len(all) {
		return TransactionPage{Items: []core.Transaction{}}, nil
	}
	end := offset + size
	if end > len(all) {
		end = len(all)
	}
	page := TransactionPage{Items: append([]core.Transaction(nil), all[offset:end]...)}
	if end < len(all) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}
