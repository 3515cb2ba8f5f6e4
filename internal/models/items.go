package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ItemList stores order lines as a JSON column.
type ItemList []OrderItem

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("items: unsupported column type")
	}
}
