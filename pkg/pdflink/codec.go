package pdflink

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// checksumLen is the number of hex digits in the checksum suffix.
const checksumLen = 8

// checksumSep separates the body from the checksum suffix.
const checksumSep = "."

// wireBody is the serialized form of a Payload. Field order is fixed so that
// identical payloads always encode to identical strings.
type wireBody struct {
	ID            string `json:"id"`
	PageNumber    int    `json:"p"`
	OutlineTitle  string `json:"o,omitempty"`
	BookmarkTitle string `json:"b,omitempty"`
	BookmarkColor string `json:"c,omitempty"`
	Snippet       string `json:"s,omitempty"`
	FileURL       string `json:"u,omitempty"`
	CreatedAt     string `json:"t,omitempty"`
}

// decodeBody mirrors wireBody for decoding. The page is kept as its literal
// JSON text so non-integers are rejected instead of truncated.
type decodeBody struct {
	ID            string     `json:"id"`
	PageNumber    *rawNumber `json:"p"`
	OutlineTitle  string     `json:"o"`
	BookmarkTitle string     `json:"b"`
	BookmarkColor string     `json:"c"`
	Snippet       string     `json:"s"`
	FileURL       string     `json:"u"`
	CreatedAt     string     `json:"t"`
}

type rawNumber struct {
	raw string
}

func (n *rawNumber) UnmarshalJSON(b []byte) error {
	n.raw = string(b)
	return nil
}

var codecAPI = sonic.ConfigStd

// Encode serializes p into a URL-safe, checksum-protected string that can be
// used verbatim as an HTML attribute value.
func Encode(p Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	raw, err := codecAPI.Marshal(wireBody{
		ID:            p.LinkID,
		PageNumber:    p.PageNumber,
		OutlineTitle:  p.OutlineTitle,
		BookmarkTitle: p.BookmarkTitle,
		BookmarkColor: p.BookmarkColor,
		Snippet:       p.Snippet,
		FileURL:       p.FileURL,
		CreatedAt:     p.CreatedAt,
	})
	if err != nil {
		return "", errors.Wrap(err, "pdflink: marshal payload")
	}

	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + checksumSep + checksum(body), nil
}

// MustEncode is like Encode but panics on invalid payloads. Intended for tests
// and fixtures.
func MustEncode(p Payload) string {
	s, err := Encode(p)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode verifies the checksum of s and parses it back into a Payload.
// Every failure matches ErrDecodeFailure; partial results are never returned.
func Decode(s string) (p Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = Payload{}
			err = errors.Wrapf(ErrDecodeFailure, "panic while decoding: %v", r)
		}
	}()

	body, sum, ok := splitEncoded(s)
	if !ok {
		return Payload{}, errors.Wrap(ErrDecodeFailure, "malformed encoded payload")
	}
	if checksum(body) != sum {
		return Payload{}, errors.Wrap(ErrDecodeFailure, "checksum mismatch")
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Payload{}, errors.Wrapf(ErrDecodeFailure, "body is not base64url: %v", err)
	}

	var b decodeBody
	if err := codecAPI.Unmarshal(raw, &b); err != nil {
		return Payload{}, errors.Wrapf(ErrDecodeFailure, "body is not a payload object: %v", err)
	}

	page, err := parsePageNumber(b.PageNumber)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		LinkID:        b.ID,
		PageNumber:    page,
		OutlineTitle:  b.OutlineTitle,
		BookmarkTitle: b.BookmarkTitle,
		BookmarkColor: b.BookmarkColor,
		Snippet:       b.Snippet,
		FileURL:       b.FileURL,
		CreatedAt:     b.CreatedAt,
	}, nil
}

// Checksum returns the checksum suffix of an encoded payload, or "" when s is
// not shaped like one.
func Checksum(encoded string) string {
	_, sum, ok := splitEncoded(encoded)
	if !ok {
		return ""
	}
	return sum
}

// IsEncodedChar reports whether c may appear in an encoded payload.
func IsEncodedChar(c rune) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.':
		return true
	}
	return false
}

func checksum(body string) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64String(body)))
}

func splitEncoded(s string) (body, sum string, ok bool) {
	i := strings.LastIndex(s, checksumSep)
	if i <= 0 {
		return "", "", false
	}
	body, sum = s[:i], s[i+1:]
	if len(sum) != checksumLen || !isLowerHex(sum) {
		return "", "", false
	}
	for _, c := range body {
		if !IsEncodedChar(c) || c == '.' {
			return "", "", false
		}
	}
	return body, sum, true
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// parsePageNumber accepts only a plain positive JSON integer literal.
func parsePageNumber(n *rawNumber) (int, error) {
	if n == nil || n.raw == "" || n.raw == "null" {
		return 0, errors.Wrap(ErrDecodeFailure, "page number missing")
	}
	page := 0
	for i, c := range n.raw {
		if c < '0' || c > '9' || (i == 0 && c == '0') {
			return 0, errors.Wrapf(ErrDecodeFailure, "page number %q is not a positive integer", n.raw)
		}
		page = page*10 + int(c-'0')
		if page > MaxPageNumber {
			return 0, errors.Wrapf(ErrDecodeFailure, "page number %q out of range", n.raw)
		}
	}
	return page, nil
}
