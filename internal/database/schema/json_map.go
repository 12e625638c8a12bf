package schema

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONPrices stores a price map in a json column.
type JSONPrices map[string]float64

// Value implements the driver.Valuer interface
func (m JSONPrices) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONPrices) Scan(value interface{}) error {
	if value == nil {
		*m = make(map[string]float64)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type *JSONPrices", value)
	}

	return json.Unmarshal(bytes, m)
}
