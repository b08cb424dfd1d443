package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flex is a value the upstream sends as a JSON number, string or, for dates, an array.
// Zero numbers, null, false and "" all decode to the empty value; arrays and
// objects are kept as their compact JSON text.
type Flex string

func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flex(s)
	case data[0] == '[' || data[0] == '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return fmt.Errorf("flex value: %w", err)
		}
		*f = Flex(buf.String())
	case bytes.Equal(data, []byte("true")):
		*f = "true"
	case bytes.Equal(data, []byte("false")):
		*f = ""
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("flex value %s: %w", data, err)
		}
		if n == 0 {
			*f = ""
		} else {
			*f = Flex(data)
		}
	}
	return nil
}

func (f Flex) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	var n json.Number
	if err := json.Unmarshal([]byte(f), &n); err == nil {
		return []byte(f), nil
	}
	if (f[0] == '[' || f[0] == '{') && json.Valid([]byte(f)) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f Flex) String() string {
	return string(f)
}

func (f Flex) IsZero() bool {
	return f == ""
}

// Name is a dictionary label: a plain string or an object keyed by language.
type Name struct {
	text  string
	langs map[string]string
}

func NewName(text string) Name {
	return Name{text: text}
}

func NewLocalizedName(langs map[string]string) Name {
	return Name{langs: langs}
}

func (n *Name) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Name{}
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &n.text)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	n.langs = make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		n.langs[k] = fmt.Sprint(v)
	}
	return nil
}

func (n Name) MarshalJSON() ([]byte, error) {
	if n.langs != nil {
		return json.Marshal(n.langs)
	}
	return json.Marshal(n.text)
}

// String returns the plain label, or all translations joined by a space in key order.
func (n Name) String() string {
	if n.langs == nil {
		return n.text
	}
	keys := make([]string, 0, len(n.langs))
	for k := range n.langs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, n.langs[k])
	}
	return strings.Join(values, " ")
}

// In returns the translation for lang, falling back to String.
func (n Name) In(lang string) string {
	if v, ok := n.langs[lang]; ok && v != "" {
		return v
	}
	return n.String()
}

func (n Name) IsZero() bool {
	return n.text == "" && len(n.langs) == 0
}
