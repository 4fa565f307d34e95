package eip712

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PersonalMessage renders domain and message as the JSON document signed
// with personal_sign. Domain keys come first in the order name, version,
// chainId; message keys follow in alphabetical order. Output is indented
// with two spaces and HTML characters are left unescaped.
//
// The exact bytes feed key derivation and must not change.
func PersonalMessage(domain Domain, message map[string]string) (string, error) {
	keys := make([]string, 0, len(message))
	for k := range message {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type entry struct {
		key   string
		value string
	}
	name, err := quote(domain.Name)
	if err != nil {
		return "", err
	}
	version, err := quote(domain.Version)
	if err != nil {
		return "", err
	}
	entries := []entry{
		{"name", name},
		{"version", version},
		{"chainId", strconv.FormatInt(domain.ChainID, 10)},
	}
	for _, k := range keys {
		v, err := quote(message[k])
		if err != nil {
			return "", err
		}
		entries = append(entries, entry{k, v})
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		key, err := quote(e.key)
		if err != nil {
			return "", err
		}
		buf.WriteString("  ")
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(e.value)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("failed to encode %q: %w", s, err)
	}
	return unescapeLineSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unescapeLineSeparators restores U+2028 and U+2029, which encoding/json
// always escapes, as raw runes.
func unescapeLineSeparators(b []byte) string {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return string(b)
	}
	var out strings.Builder
	out.Grow(len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out.WriteByte(b[i])
			continue
		}
		switch string(b[i+1 : min(i+6, len(b))]) {
		case "u2028":
			out.WriteRune('\u2028')
			i += 5
		case "u2029":
			out.WriteRune('\u2029')
			i += 5
		default:
			out.WriteByte(b[i])
			out.WriteByte(b[i+1])
			i++
		}
	}
	return out.String()
}
