package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DecodeArray parses a JSON array of objects. Malformed blobs and non-object
// elements are dropped, never reported as errors.
func DecodeArray(key string, blob []byte) []map[string]any {
	var raw []any
	if err := decode(blob, &raw); err != nil {
		log.Warnf("ignoring malformed %s: %v", key, err)
		return nil
	}
	records := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		}
	}
	return records
}

// DecodeObject parses a JSON object. Malformed blobs decode as an empty object.
func DecodeObject(key string, blob []byte) map[string]any {
	var raw map[string]any
	if err := decode(blob, &raw); err != nil {
		log.Warnf("ignoring malformed %s: %v", key, err)
		return map[string]any{}
	}
	if raw == nil {
		return map[string]any{}
	}
	return raw
}

func decode(blob []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	return dec.Decode(v)
}

// Int coerces a decoded value into an int; anything non-numeric is 0.
func Int(v any) int {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

// String coerces a decoded value into a string; numbers keep their text form.
func String(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// Object returns v as a JSON object, or an empty one.
func Object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
