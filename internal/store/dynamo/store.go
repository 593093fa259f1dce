// Package dynamo stores transactions and budgets in Amazon DynamoDB.
//
// Transactions table: partition key userId, sort key sk ("date#transactionId"),
// global secondary index CategoryIndex on (userCategory, sk).
// Budgets table: partition key userId, sort key category.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"moneyminder/internal/core"
	"moneyminder/internal/store"
)

// CategoryIndex is the GSI used for per-category queries.
const CategoryIndex = "CategoryIndex"

// skUpper sorts after any "#id" suffix, making a date an inclusive upper bound.
const skUpper = "#\uffff"

// API is the subset of the DynamoDB client the store uses.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables names the two tables.
type Tables struct {
	Transactions string
	Budgets      string
}

type Store struct {
	api    API
	tables Tables
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.BudgetStore      = (*Store)(nil)
)

func New(api API, tables Tables) *Store {
	return &Store{api: api, tables: tables}
}

// NewClient loads the default AWS configuration for region. A non-empty
// endpoint points the client at DynamoDB Local or LocalStack.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *Store) Put(ctx context.Context, t core.Transaction) error {
	av, err := attributevalue.MarshalMap(transactionFromModel(t))
	if err != nil {
		return &core.StoreWriteError{Op: "marshal transaction", Err: err}
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Transactions),
		Item:      av,
	})
	if err != nil {
		return &core.StoreWriteError{Op: "put transaction", Err: err}
	}
	return nil
}

func (s *Store) QueryByUserAndDateRange(ctx context.Context, userID, start, end string, page store.PageRequest) (store.TransactionPage, error) {
	cond, values := skRange("userId = :pk", start, end)
	values[":pk"] = &types.AttributeValueMemberS{Value: userID}
	return s.query(ctx, "query by date range", page, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tables.Transactions),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeValues: values,
	})
}

func (s *Store) QueryByUserCategoryAndMonth(ctx context.Context, userID, category, monthPrefix string, page store.PageRequest) (store.TransactionPage, error) {
	return s.query(ctx, "query by category and month", page, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Transactions),
		IndexName:              aws.String(CategoryIndex),
		KeyConditionExpression: aws.String("userCategory = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userCategory(userID, category)},
			":prefix": &types.AttributeValueMemberS{Value: monthPrefix},
		},
	})
}

func (s *Store) QueryByUserAndCategory(ctx context.Context, userID, category string, window core.DateWindow, page store.PageRequest) (store.TransactionPage, error) {
	cond, values := skRange("userCategory = :pk", window.Start, window.End)
	values[":pk"] = &types.AttributeValueMemberS{Value: userCategory(userID, category)}
	return s.query(ctx, "query by category", page, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tables.Transactions),
		IndexName:                 aws.String(CategoryIndex),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeValues: values,
	})
}

// skRange adds an inclusive date range on sk to a partition condition. An
// empty bound is open.
func skRange(partition, start, end string) (string, map[string]types.AttributeValue) {
	values := map[string]types.AttributeValue{}
	switch {
	case start != "" && end != "":
		values[":start"] = &types.AttributeValueMemberS{Value: start}
		values[":end"] = &types.AttributeValueMemberS{Value: end + skUpper}
		return partition + " AND sk BETWEEN :start AND :end", values
	case start != "":
		values[":start"] = &types.AttributeValueMemberS{Value: start}
		return partition + " AND sk >= :start", values
	case end != "":
		values[":end"] = &types.AttributeValueMemberS{Value: end + skUpper}
		return partition + " AND sk <= :end", values
	}
	return partition, values
}

func (s *Store) query(ctx context.Context, op string, req store.PageRequest, in *dynamodb.QueryInput) (store.TransactionPage, error) {
	start, err := decodeCursor(req.Cursor)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	in.ExclusiveStartKey = start
	in.Limit = aws.Int32(int32(req.Size()))
	in.ScanIndexForward = aws.Bool(false)

	out, err := s.api.Query(ctx, in)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}

	var items []transactionItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	page := store.TransactionPage{Items: make([]core.Transaction, 0, len(items))}
	for _, item := range items {
		t, err := item.toModel()
		if err != nil {
			return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
		}
		page.Items = append(page.Items, t)
	}

	page.NextCursor, err = encodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return store.TransactionPage{}, &core.StoreReadError{Op: op, Err: err}
	}
	return page, nil
}

// Upsert keeps createdAt of an existing budget through if_not_exists.
func (s *Store) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tables.Budgets),
		Key: map[string]types.AttributeValue{
			"userId":   &types.AttributeValueMemberS{Value: b.UserID},
			"category": &types.AttributeValueMemberS{Value: b.Category},
		},
		UpdateExpression: aws.String("SET #limit = :limit, notifyEmail = :email, updatedAt = :updated, createdAt = if_not_exists(createdAt, :created)"),
		ExpressionAttributeNames: map[string]string{
			"#limit": "limit",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":limit":   &types.AttributeValueMemberN{Value: b.Limit.String()},
			":email":   &types.AttributeValueMemberS{Value: b.NotifyEmail},
			":updated": &types.AttributeValueMemberS{Value: b.UpdatedAt},
			":created": &types.AttributeValueMemberS{Value: b.CreatedAt},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "update budget", Err: err}
	}

	var item budgetItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "unmarshal budget", Err: err}
	}
	stored, err := item.toModel()
	if err != nil {
		return core.Budget{}, &core.StoreWriteError{Op: "decode budget", Err: err}
	}
	return stored, nil
}

func (s *Store) GetAll(ctx context.Context, userID string) ([]core.Budget, error) {
	p := dynamodb.NewQueryPaginator(s.api, &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Budgets),
		KeyConditionExpression: aws.String("userId = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userID},
		},
	})
	out := []core.Budget{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &core.StoreReadError{Op: "query budgets", Err: err}
		}
		bs, err := unmarshalBudgets(page.Items)
		if err != nil {
			return nil, &core.StoreReadError{Op: "unmarshal budgets", Err: err}
		}
		out = append(out, bs...)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, userID, category string) (core.Budget, bool, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Budgets),
		Key: map[string]types.AttributeValue{
			"userId":   &types.AttributeValueMemberS{Value: userID},
			"category": &types.AttributeValueMemberS{Value: category},
		},
	})
	if err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "get budget", Err: err}
	}
	if out.Item == nil {
		return core.Budget{}, false, nil
	}
	var item budgetItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "unmarshal budget", Err: err}
	}
	b, err := item.toModel()
	if err != nil {
		return core.Budget{}, false, &core.StoreReadError{Op: "decode budget", Err: err}
	}
	return b, true, nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.Budget, error) {
	p := dynamodb.NewScanPaginator(s.api, &dynamodb.ScanInput{
		TableName: aws.String(s.tables.Budgets),
	})
	out := []core.Budget{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &core.StoreReadError{Op: "scan budgets", Err: err}
		}
		bs, err := unmarshalBudgets(page.Items)
		if err != nil {
			return nil, &core.StoreReadError{Op: "unmarshal budgets", Err: err}
		}
		out = append(out, bs...)
	}
	return out, nil
}
