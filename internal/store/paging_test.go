package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyminder/internal/core"
)

func mk(ids ...string) []core.Transaction {
	out := make([]core.Transaction, len(ids))
	for i, id := range ids {
		out[i] = core.Transaction{TransactionID: id, Date: "2024-06-0" + id}
	}
	return out
}

func TestPageRequestSize(t *testing.T) {
	assert.Equal(t, DefaultPageLimit, PageRequest{}.Size())
	assert.Equal(t, 5, PageRequest{Limit: 5}.Size())
	assert.Equal(t, MaxPageLimit, PageRequest{Limit: MaxPageLimit + 1}.Size())
}

func TestSortNewestFirst(t *testing.T) {
	txns := mk("1", "3", "2")
	SortNewestFirst(txns)
	assert.Equal(t, "3", txns[0].TransactionID)
	assert.Equal(t, "1", txns[2].TransactionID)
}

func TestPageSlice(t *testing.T) {
	all := mk("5", "4", "3", "2", "1")

	p1, err := PageSlice(all, PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, p1.Items, 2)
	assert.True(t, p1.HasMore())

	p3, err := PageSlice(all, PageRequest{Limit: 2, Cursor: "4"})
	require.NoError(t, err)
	assert.Len(t, p3.Items, 1)
	assert.False(t, p3.HasMore())

	empty, err := PageSlice(all, PageRequest{Cursor: "99"})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = PageSlice(all, PageRequest{Cursor: "-1"})
	assert.Error(t, err)
	_, err = PageSlice(all, PageRequest{Cursor: "abc"})
	assert.Error(t, err)
}

func TestTrimPage(t *testing.T) {
	p := TrimPage(mk("3", "2", "1"), 10, 2)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, "12", p.NextCursor)

	p = TrimPage(mk("1"), 0, 2)
	assert.False(t, p.HasMore())
	assert.NotNil(t, TrimPage(nil, 0, 2).Items)
}

func TestCollectAll(t *testing.T) {
	all := mk("5", "4", "3", "2", "1")
	calls := 0
	got, err := CollectAll(context.Background(), func(req PageRequest) (TransactionPage, error) {
		calls++
		req.Limit = 2
		return PageSlice(all, req)
	})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 3, calls)

	boom := errors.New("boom")
	_, err = CollectAll(context.Background(), func(PageRequest) (TransactionPage, error) {
		return TransactionPage{}, boom
	})
	assert.ErrorIs(t, err, boom)
}
