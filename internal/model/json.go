package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/bytedance/sonic"
)

// JSONMap stores an opaque key/value bag as a JSON text column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := sonic.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(v interface{}) error {
	raw, err := jsonBytes(v)
	if err != nil || len(raw) == 0 {
		*m = nil
		return err
	}
	out := JSONMap{}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// JSONList 字符串数组, 以 JSON 文本存储
type JSONList []string

func (l JSONList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := sonic.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *JSONList) Scan(v interface{}) error {
	raw, err := jsonBytes(v)
	if err != nil || len(raw) == 0 {
		*l = nil
		return err
	}
	var out []string
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

func jsonBytes(v interface{}) ([]byte, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case string:
		return []byte(value), nil
	}
	return nil, fmt.Errorf("model: cannot scan %T as json", v)
}
