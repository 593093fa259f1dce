package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyminder/internal/core"
	"moneyminder/internal/store"
)

// fakeAPI records requests and replays canned responses.
type fakeAPI struct {
	puts    []*dynamodb.PutItemInput
	queries []*dynamodb.QueryInput
	updates []*dynamodb.UpdateItemInput

	queryOut  []*dynamodb.QueryOutput
	scanOut   []*dynamodb.ScanOutput
	getOut    *dynamodb.GetItemOutput
	updateOut *dynamodb.UpdateItemOutput
	err       error
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeAPI) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.getOut, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.updateOut, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	if f.err != nil {
		return nil, f.err
	}
	out := f.queryOut[0]
	f.queryOut = f.queryOut[1:]
	return out, nil
}

func (f *fakeAPI) Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.scanOut[0]
	f.scanOut = f.scanOut[1:]
	return out, nil
}

var tables = Tables{Transactions: "Transactions", Budgets: "Budgets"}

func str(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }

func txnItem(t *testing.T, tx core.Transaction) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(transactionFromModel(tx))
	require.NoError(t, err)
	return av
}

func TestPutWritesKeysAndNumericAmount(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, tables)

	err := s.Put(context.Background(), core.Transaction{
		UserID: "u1", TransactionID: "t1", Amount: core.MustParseMoney("12.50"),
		Category: "food", Date: "2024-06-10", CreatedAt: "c", PaymentMethod: "other",
	})
	require.NoError(t, err)
	require.Len(t, api.puts, 1)

	item := api.puts[0].Item
	assert.Equal(t, "Transactions", aws.ToString(api.puts[0].TableName))
	assert.Equal(t, str("2024-06-10#t1"), item["sk"])
	assert.Equal(t, str("2:u1#food"), item["userCategory"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "12.5"}, item["amount"])
	_, hasDesc := item["description"]
	assert.False(t, hasDesc, "empty description is omitted")
}

func TestPutFailureIsWriteError(t *testing.T) {
	s := New(&fakeAPI{err: errors.New("throttled")}, tables)
	err := s.Put(context.Background(), core.Transaction{UserID: "u1", Amount: core.MoneyFromInt(1)})
	var we *core.StoreWriteError
	assert.ErrorAs(t, err, &we)
}

func TestQueryByDateRangeBuildsInclusiveRange(t *testing.T) {
	api := &fakeAPI{queryOut: []*dynamodb.QueryOutput{{
		Items: []map[string]types.AttributeValue{
			txnItem(t, core.Transaction{UserID: "u1", TransactionID: "t2", Amount: core.MustParseMoney("20"), Category: "food", Date: "2024-06-30"}),
		},
		LastEvaluatedKey: map[string]types.AttributeValue{"userId": str("u1"), "sk": str("2024-06-30#t2")},
	}}}
	s := New(api, tables)

	page, err := s.QueryByUserAndDateRange(context.Background(), "u1", "2024-06-01", "2024-06-30", store.PageRequest{Limit: 1})
	require.NoError(t, err)

	in := api.queries[0]
	assert.Equal(t, "userId = :pk AND sk BETWEEN :start AND :end", aws.ToString(in.KeyConditionExpression))
	assert.Equal(t, str("2024-06-30"+skUpper), in.ExpressionAttributeValues[":end"])
	assert.False(t, aws.ToBool(in.ScanIndexForward))
	assert.Equal(t, int32(1), aws.ToInt32(in.Limit))
	assert.Nil(t, in.IndexName)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "20", page.Items[0].Amount.String())
	assert.True(t, page.HasMore())

	key, err := decodeCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, str("2024-06-30#t2"), key["sk"])
}

func TestSortKeyBoundsIncludeLastDay(t *testing.T) {
	upper := "2024-06-30" + skUpper
	assert.True(t, sortKey("2024-06-30", "ffffffff-ffff") <= upper)
	assert.True(t, sortKey("2024-07-01", "0") > upper)
	assert.True(t, sortKey("2024-06-01", "0") >= "2024-06-01")
}

func TestUserCategoryKeysDoNotCollide(t *testing.T) {
	assert.NotEqual(t, userCategory("a#b", "c"), userCategory("a", "b#c"))
	assert.Equal(t, "3:a#b#c", userCategory("a#b", "c"))
	assert.Equal(t, "1:a#b#c", userCategory("a", "b#c"))
}

func TestQueryByCategoryAndMonthUsesIndex(t *testing.T) {
	api := &fakeAPI{queryOut: []*dynamodb.QueryOutput{{}}}
	s := New(api, tables)

	page, err := s.QueryByUserCategoryAndMonth(context.Background(), "u1", "food", "2024-06", store.PageRequest{Cursor: mustCursor(t)})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore())

	in := api.queries[0]
	assert.Equal(t, CategoryIndex, aws.ToString(in.IndexName))
	assert.Equal(t, "userCategory = :pk AND begins_with(sk, :prefix)", aws.ToString(in.KeyConditionExpression))
	assert.Equal(t, str("2:u1#food"), in.ExpressionAttributeValues[":pk"])
	assert.Equal(t, str("2024-06"), in.ExpressionAttributeValues[":prefix"])
	assert.NotNil(t, in.ExclusiveStartKey)
}

func TestQueryByCategoryOpenWindow(t *testing.T) {
	api := &fakeAPI{queryOut: []*dynamodb.QueryOutput{{}, {}}}
	s := New(api, tables)

	_, err := s.QueryByUserAndCategory(context.Background(), "u1", "food", core.DateWindow{}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "userCategory = :pk", aws.ToString(api.queries[0].KeyConditionExpression))

	_, err = s.QueryByUserAndCategory(context.Background(), "u1", "food", core.DateWindow{Start: "2024-01-01"}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "userCategory = :pk AND sk >= :start", aws.ToString(api.queries[1].KeyConditionExpression))
}

func TestBadCursorIsReadError(t *testing.T) {
	s := New(&fakeAPI{}, tables)
	_, err := s.QueryByUserAndDateRange(context.Background(), "u1", "", "", store.PageRequest{Cursor: "%%%"})
	assert.True(t, core.IsStoreFailure(err))
}

func mustCursor(t *testing.T) string {
	t.Helper()
	c, err := encodeCursor(map[string]types.AttributeValue{"userCategory": str("2:u1#food"), "sk": str("2024-06-02#x"), "userId": str("u1")})
	require.NoError(t, err)
	return c
}

func TestUpsertPreservesCreatedAtExpression(t *testing.T) {
	api := &fakeAPI{updateOut: &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"userId":    str("u1"),
		"category":  str("food"),
		"limit":     &types.AttributeValueMemberN{Value: "80"},
		"createdAt": str("t1"),
		"updatedAt": str("t2"),
	}}}
	s := New(api, tables)

	got, err := s.Upsert(context.Background(), core.Budget{UserID: "u1", Category: "food", Limit: core.MustParseMoney("80"), CreatedAt: "t2", UpdatedAt: "t2"})
	require.NoError(t, err)
	assert.Equal(t, "t1", got.CreatedAt)
	assert.Equal(t, "80", got.Limit.String())

	in := api.updates[0]
	assert.Contains(t, aws.ToString(in.UpdateExpression), "if_not_exists(createdAt, :created)")
	assert.Equal(t, "limit", in.ExpressionAttributeNames["#limit"])
	assert.Equal(t, types.ReturnValueAllNew, in.ReturnValues)
}

func TestGetBudget(t *testing.T) {
	api := &fakeAPI{getOut: &dynamodb.GetItemOutput{}}
	s := New(api, tables)

	_, ok, err := s.Get(context.Background(), "u1", "food")
	require.NoError(t, err)
	assert.False(t, ok)

	api.getOut = &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"userId": str("u1"), "category": str("food"), "limit": &types.AttributeValueMemberN{Value: "77.77"}, "notifyEmail": str("u1@example.com"),
	}}
	b, ok, err := s.Get(context.Background(), "u1", "food")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "77.77", b.Limit.String())
	assert.Equal(t, "u1@example.com", b.NotifyEmail)
}

func TestListAllFollowsScanPages(t *testing.T) {
	api := &fakeAPI{scanOut: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{{"userId": str("u1"), "category": str("food"), "limit": &types.AttributeValueMemberN{Value: "50"}}},
			LastEvaluatedKey: map[string]types.AttributeValue{"userId": str("u1"), "category": str("food")},
		},
		{
			Items: []map[string]types.AttributeValue{{"userId": str("u2"), "category": str("rent"), "limit": &types.AttributeValueMemberN{Value: "900"}}},
		},
	}}
	s := New(api, tables)

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[1].UserID)
}

func TestGetAllQueriesUserPartition(t *testing.T) {
	api := &fakeAPI{queryOut: []*dynamodb.QueryOutput{{}}}
	s := New(api, tables)

	bs, err := s.GetAll(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, bs)
	assert.Empty(t, bs)
	assert.Equal(t, "Budgets", aws.ToString(api.queries[0].TableName))
}

func TestCursorRoundTrip(t *testing.T) {
	c, err := encodeCursor(nil)
	require.NoError(t, err)
	assert.Empty(t, c)

	key, err := decodeCursor(mustCursor(t))
	require.NoError(t, err)
	assert.Len(t, key, 3)

	_, err = encodeCursor(map[string]types.AttributeValue{"n": &types.AttributeValueMemberN{Value: "1"}})
	assert.Error(t, err)
}
