package models

import (
	"encoding/base64"
	"strings"
)

// DecodePhoto converts a base64 photo upload into raw bytes. A data-URI
// prefix ("data:image/jpeg;base64,...") is stripped before decoding. Returns
// nil on empty input or undecodable data; photo decode failures never fail
// the enclosing request.
func DecodePhoto(s string) []byte {
	if s == "" {
		return nil
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return data
}

// EncodePhoto re-encodes stored photo bytes as a JPEG data URI for transport.
func EncodePhoto(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}
