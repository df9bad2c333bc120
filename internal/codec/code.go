package codec

import (
	"regexp"
	"strings"
)

// codePattern is the item code grammar: digits, upper-case Greek letters,
// lower-case Greek letters, digits, with no separators.
var codePattern = regexp.MustCompile(`^([0-9]{1,2})([Α-Ω]{1,2})([α-ω]{1,2})([0-9]{1,3})$`)

// storedCodePattern also admits the placeholders decode substitutes for
// missing digit components.
var storedCodePattern = regexp.MustCompile(`^([0-9]{1,2}|χχ)([Α-Ω]{1,2})([α-ω]{1,2})([0-9]{1,3}|ΧΧ)$`)

// CodeParts are the four ordered components of an item code.
type CodeParts [4]string

// Placeholders fill missing components, by position.
var Placeholders = CodeParts{"χχ", "ΧΧ", "χχ", "ΧΧ"}

// String concatenates the components.
func (p CodeParts) String() string {
	return strings.Join(p[:], "")
}

// SplitCode splits a code that matches the grammar in full. Partial matches
// are rejected.
func SplitCode(code string) (CodeParts, bool) {
	return split(codePattern, code)
}

func split(pattern *regexp.Regexp, code string) (CodeParts, bool) {
	if code == "" {
		return CodeParts{}, false
	}
	m := pattern.FindStringSubmatch(code)
	if m == nil {
		return CodeParts{}, false
	}
	return CodeParts{m[1], m[2], m[3], m[4]}, true
}

// JoinCode concatenates components, substituting the positional
// placeholder for each empty one.
func JoinCode(parts CodeParts) string {
	var joined CodeParts
	for i, p := range parts {
		if p == "" {
			p = Placeholders[i]
		}
		joined[i] = p
	}
	return joined.String()
}
