package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	DefaultPaymentMethod = "other"
	MaxDescriptionLength = 500
)

type (
	// Principal is the acting user as supplied by the identity provider.
	Principal struct {
		UserID string
		Email  string
	}

	Transaction struct {
		UserID        string `json:"userId"`
		TransactionID string `json:"transactionId"`
		Amount        Money  `json:"amount"`
		Category      string `json:"category"`
		Description   string `json:"description,omitempty"`
		Date          string `json:"date"`
		CreatedAt     string `json:"createdAt"`
		PaymentMethod string `json:"paymentMethod"`
	}

	// Budget is a monthly limit for one category. A user has at most one
	// budget per category.
	Budget struct {
		UserID      string `json:"userId"`
		Category    string `json:"category"`
		Limit       Money  `json:"limit"`
		NotifyEmail string `json:"-"`
		CreatedAt   string `json:"createdAt"`
		UpdatedAt   string `json:"updatedAt"`
	}

	// BudgetStatus is derived, never stored.
	BudgetStatus struct {
		Category       string `json:"category"`
		Limit          Money  `json:"limit"`
		Spent          Money  `json:"spent"`
		Remaining      Money  `json:"remaining"`
		PercentageUsed Money  `json:"percentageUsed"`
	}

	// TransactionInput is the untrusted request payload for a new transaction.
	TransactionInput struct {
		Amount        *json.Number `json:"amount"`
		Category      string       `json:"category"`
		Description   string       `json:"description"`
		Date          string       `json:"date"`
		PaymentMethod string       `json:"paymentMethod"`
	}

	// BudgetInput is the untrusted request payload for a budget upsert.
	BudgetInput struct {
		Category string       `json:"category"`
		Limit    *json.Number `json:"limit"`
	}

	// IDGenerator returns a new globally unique transaction id.
	IDGenerator func() string
)

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

func (p Principal) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return invalid("userId", ErrMissingUser)
	}
	return nil
}

// DecodeTransactionInput decodes a JSON payload keeping numbers exact.
func DecodeTransactionInput(data []byte) (TransactionInput, error) {
	var in TransactionInput
	if err := decodeStrict(data, &in); err != nil {
		return in, err
	}
	return in, nil
}

// DecodeBudgetInput decodes a JSON payload keeping numbers exact.
func DecodeBudgetInput(data []byte) (BudgetInput, error) {
	var in BudgetInput
	if err := decodeStrict(data, &in); err != nil {
		return in, err
	}
	return in, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("body", err)
	}
	return nil
}

// NewTransaction validates in and builds a Transaction owned by p. The date
// defaults to now's calendar day in now's location.
func NewTransaction(p Principal, in TransactionInput, now time.Time, newID IDGenerator) (Transaction, error) {
	if err := p.Validate(); err != nil {
		return Transaction{}, err
	}
	if in.Amount == nil {
		return Transaction{}, invalid("amount", errors.New("required"))
	}
	amount, err := ParseMoney(in.Amount.String())
	if err != nil {
		return Transaction{}, invalid("amount", err)
	}
	if !amount.IsPositive() {
		return Transaction{}, invalid("amount", ErrInvalidAmount)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return Transaction{}, invalid("category", ErrEmptyCategory)
	}

	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return Transaction{}, invalid("description", fmt.Errorf("%w (max %d characters)", ErrDescriptionSize, MaxDescriptionLength))
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = now.Format(DateLayout)
	} else if err := ValidateDate(date); err != nil {
		return Transaction{}, invalid("date", err)
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = DefaultPaymentMethod
	}

	if newID == nil {
		newID = NewUUID
	}

	return Transaction{
		UserID:        p.UserID,
		TransactionID: newID(),
		Amount:        amount,
		Category:      category,
		Description:   description,
		Date:          date,
		CreatedAt:     now.Format(TimestampLayout),
		PaymentMethod: method,
	}, nil
}

// NewBudget validates in and builds a Budget owned by p. Both timestamps are
// set to now; stores keep the original CreatedAt when overwriting.
func NewBudget(p Principal, in BudgetInput, now time.Time) (Budget, error) {
	if err := p.Validate(); err != nil {
		return Budget{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return Budget{}, invalid("category", ErrEmptyCategory)
	}
	if in.Limit == nil {
		return Budget{}, invalid("limit", errors.New("required"))
	}
	limit, err := ParseMoney(in.Limit.String())
	if err != nil {
		return Budget{}, invalid("limit", ErrInvalidLimit)
	}
	if limit.IsNegative() {
		return Budget{}, invalid("limit", fmt.Errorf("%w: must not be negative", ErrInvalidLimit))
	}

	ts := now.Format(TimestampLayout)
	return Budget{
		UserID:      p.UserID,
		Category:    category,
		Limit:       limit,
		NotifyEmail: strings.TrimSpace(p.Email),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}
