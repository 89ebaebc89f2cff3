package datatype

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/11/30 11:02
 * @file: json.go
 * @description: gorm json data type
 */

type JSON []byte

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = append((*j)[0:0], v...)
	default:
		return errors.New("unable to convert type to JSON")
	}
	return nil
}

// MarshalJSON implements the json.Marshal interface
func (j JSON) MarshalJSON() ([]byte, error) {
	if j.IsNull() {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements the json.Unmarshal interface
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("null point exception")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// Map returns the json as a map
func (j JSON) Map() (map[string]any, error) {
	if j.IsNull() {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(j, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap marshals a map into a JSON value.
func FromMap(m map[string]any) (JSON, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return JSON(b), nil
}

// IsNull returns true if the json is null
func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}
