package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Transactions, RefundRequests and RecurringPayments are stored as jsonb
// arrays on the wallet row.
type (
	Transactions      []Transaction
	RefundRequests    []RefundRequest
	RecurringPayments []RecurringPayment
)

func (t Transactions) Value() (driver.Value, error)      { return marshalList(t) }
func (t *Transactions) Scan(value interface{}) error     { return scanList(value, t) }
func (r RefundRequests) Value() (driver.Value, error)    { return marshalList(r) }
func (r *RefundRequests) Scan(value interface{}) error   { return scanList(value, r) }
func (r RecurringPayments) Value() (driver.Value, error) { return marshalList(r) }
func (r *RecurringPayments) Scan(value interface{}) error {
	return scanList(value, r)
}

func marshalList[T any](list []T) (driver.Value, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanList[T any](value interface{}, dest *T) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source %T", value)
	}
	return json.Unmarshal(data, dest)
}
