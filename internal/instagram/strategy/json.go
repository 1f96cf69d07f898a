package strategy

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString accepts a JSON string or number. Instagram serializes ids both
// ways depending on the endpoint.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexText accepts either a plain string or an object carrying a "text"
// field, which is how captions come back from the different endpoints.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*t = flexText(v)
	case len(data) > 0 && data[0] == '{':
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*t = flexText(v.Text)
	default:
		*t = ""
	}
	return nil
}

// flexInt accepts numbers and numeric strings; anything else becomes zero.
type flexInt int64

func (i *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' {
		data = data[1 : len(data)-1]
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*i = flexInt(n)
		return nil
	}
	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		*i = flexInt(int64(f))
		return nil
	}
	*i = 0
	return nil
}
