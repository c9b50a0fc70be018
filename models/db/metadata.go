package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
)

// Metadata is the structured key/value block attached to ISO documents,
// stored as jsonb and validated before every write.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		m = Metadata{}
	}
	valueString, err := json.Marshal(m)
	return string(valueString), err
}

func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &m); err != nil {
		return err
	}
	return nil
}
