package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// flexFloat accepts 12, 12.5, "12", "250 sq ft" and "N/A". Text that does not
// start with a number decodes to 0.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if v, ok := leadingNumber(s); ok {
			f.Value, f.Set = v, true
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value, f.Set = v, true
	return nil
}

type flexInt struct {
	flexFloat
}

func (i flexInt) Int() int {
	return int(i.Value)
}

// tierInt is a classification tier: 3, "3", "Condition 3" or "Class 2 - wet
// drywall". Text with no number is rejected instead of reading as
// unclassified, except for the usual "not applicable" spellings.
type tierInt struct {
	Value int
}

func (t *tierInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) == 0 || b[0] != '"' {
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		t.Value = int(v)
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "n/a", "na", "none", "unknown":
		return nil
	}
	s := strings.TrimLeftFunc(raw, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsSpace(r) || r == ':' || r == '#'
	})
	v, ok := leadingNumber(s)
	if !ok {
		return fmt.Errorf("classification tier %q has no number", raw)
	}
	t.Value = int(v)
	return nil
}

func (t tierInt) Int() int {
	return t.Value
}

// leadingNumber parses the numeric prefix of s: "5-7 days" yields 5.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	end := 0
	for end < len(s) {
		r := rune(s[end])
		if unicode.IsDigit(r) || r == '.' || (end == 0 && r == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
