package repository

// In this file: the storage codec for JSON-encoded text columns.  Lists
// and mappings (tags, topics, expertise, social links, accessibility,
// coordinates) are stored as opaque JSON text; decode failure degrades to
// the empty value and is never a fatal error.

import "encoding/json"

var (
	marshal   = json.Marshal
	unmarshal = json.Unmarshal
)

// EncodeList encodes an ordered list of strings for storage.  A nil list
// encodes to nil (stored as NULL).
func EncodeList(ss []string) *string {
	if ss == nil {
		return nil
	}
	data, err := marshal(ss)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// DecodeList decodes a stored list column.  NULL, empty and malformed
// values all decode to an empty list.
func DecodeList(s *string) []string {
	return decodeOr(s, []string{})
}

// EncodeMap encodes a string-keyed mapping for storage.  A nil map encodes
// to nil.
func EncodeMap[V any](m map[string]V) *string {
	if m == nil {
		return nil
	}
	data, err := marshal(m)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// DecodeStringMap decodes a stored mapping of string to string.
func DecodeStringMap(s *string) map[string]string {
	return decodeOr(s, map[string]string{})
}

// DecodeBoolMap decodes a stored mapping of string to bool.
func DecodeBoolMap(s *string) map[string]bool {
	return decodeOr(s, map[string]bool{})
}

// DecodeFloatMap decodes a stored mapping of string to float64.
func DecodeFloatMap(s *string) map[string]float64 {
	return decodeOr(s, map[string]float64{})
}

func decodeOr[T any](s *string, empty T) T {
	if s == nil || *s == "" {
		return empty
	}
	var t T
	if err := unmarshal([]byte(*s), &t); err != nil {
		return empty
	}
	return t
}
