package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// clientTime accepts epoch milliseconds (number or numeric string) or an
// RFC 3339 string. Anything else decodes to the zero time.
type clientTime struct {
	time.Time
}

func (t *clientTime) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		t.Time = parseClientTime(s)
		return nil
	}

	t.Time = parseClientTime(string(data))
	return nil
}

func parseClientTime(s string) time.Time {
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		if ms <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(int64(ms))
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
