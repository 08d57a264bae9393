package shared

import (
	"bytes"
	"encoding/json"
)

// Number holds a numeric JSON field sent either bare (12.5) or quoted ("12.5").
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	*n = Number(data)
	return nil
}
