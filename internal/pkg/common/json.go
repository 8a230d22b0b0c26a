package common

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// ParseJSONBytes 解析 JSON 位元組切片到結構體，頂層值之後不得有多餘資料
func ParseJSONBytes(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

// MarshalJSON 將結構體轉換為 JSON 位元組
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// UnmarshalJSON 解析 JSON 位元組
func UnmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// RawMessage 延遲解析的 JSON 片段
type RawMessage = json.RawMessage
