package session

import (
	"encoding/json"
	"errors"
	"maps"
	"time"
)

// record is the serialized form of a session.
type record struct {
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func encodeRecord(rec record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return b, nil
}

func decodeRecord(b []byte) (record, error) {
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return record{}, errors.Join(ErrDecode, err)
	}
	if rec.Data == nil {
		rec.Data = make(map[string]any)
	}
	return rec, nil
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	maps.Copy(out, data)
	return out
}
