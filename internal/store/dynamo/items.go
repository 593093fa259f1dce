package dynamo

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"moneyminder/internal/core"
)

// number stores a decimal string as a DynamoDB N attribute so amounts keep
// full precision.
type number string

var (
	_ attributevalue.Marshaler   = number("")
	_ attributevalue.Unmarshaler = (*number)(nil)
)

func (n number) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: string(n)}, nil
}

func (n *number) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		*n = number(v.Value)
	case *types.AttributeValueMemberS:
		*n = number(v.Value)
	default:
		return fmt.Errorf("unexpected attribute type %T for number", av)
	}
	return nil
}

// transactionItem is a row of the transactions table. sk sorts by date and
// is unique per user; userCategory keys the CategoryIndex GSI.
type transactionItem struct {
	UserID        string `dynamodbav:"userId"`
	SK            string `dynamodbav:"sk"`
	UserCategory  string `dynamodbav:"userCategory"`
	TransactionID string `dynamodbav:"transactionId"`
	Amount        number `dynamodbav:"amount"`
	Category      string `dynamodbav:"category"`
	Description   string `dynamodbav:"description,omitempty"`
	Date          string `dynamodbav:"date"`
	CreatedAt     string `dynamodbav:"createdAt"`
	PaymentMethod string `dynamodbav:"paymentMethod"`
}

func sortKey(date, id string) string { return date + "#" + id }

// userCategory is the CategoryIndex partition key. The user id is length
// prefixed so ids and categories containing '#' cannot collide.
func userCategory(userID, category string) string {
	return fmt.Sprintf("%d:%s#%s", len(userID), userID, category)
}

func transactionFromModel(t core.Transaction) transactionItem {
	return transactionItem{
		UserID:        t.UserID,
		SK:            sortKey(t.Date, t.TransactionID),
		UserCategory:  userCategory(t.UserID, t.Category),
		TransactionID: t.TransactionID,
		Amount:        number(t.Amount.String()),
		Category:      t.Category,
		Description:   t.Description,
		Date:          t.Date,
		CreatedAt:     t.CreatedAt,
		PaymentMethod: t.PaymentMethod,
	}
}

func (item transactionItem) toModel() (core.Transaction, error) {
	amount, err := core.ParseMoney(string(item.Amount))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s amount %q: %w", item.TransactionID, item.Amount, err)
	}
	date := item.Date
	if date == "" {
		date, _, _ = strings.Cut(item.SK, "#")
	}
	return core.Transaction{
		UserID:        item.UserID,
		TransactionID: item.TransactionID,
		Amount:        amount,
		Category:      item.Category,
		Description:   item.Description,
		Date:          date,
		CreatedAt:     item.CreatedAt,
		PaymentMethod: item.PaymentMethod,
	}, nil
}

type budgetItem struct {
	UserID      string `dynamodbav:"userId"`
	Category    string `dynamodbav:"category"`
	Limit       number `dynamodbav:"limit"`
	NotifyEmail string `dynamodbav:"notifyEmail,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt"`
}

func (item budgetItem) toModel() (core.Budget, error) {
	limit, err := core.ParseMoney(string(item.Limit))
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %s/%s limit %q: %w", item.UserID, item.Category, item.Limit, err)
	}
	return core.Budget{
		UserID:      item.UserID,
		Category:    item.Category,
		Limit:       limit,
		NotifyEmail: item.NotifyEmail,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, nil
}

func unmarshalBudgets(items []map[string]types.AttributeValue) ([]core.Budget, error) {
	var raw []budgetItem
	if err := attributevalue.UnmarshalListOfMaps(items, &raw); err != nil {
		return nil, err
	}
	out := make([]core.Budget, 0, len(raw))
	for _, item := range raw {
		b, err := item.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
