package assertion

import (
	"fmt"
	"regexp"
	"strings"
)

// evaluateNotEmpty checks that the output contains at least one
// non-blank line.
func evaluateNotEmpty(
	_ Definition,
	out Output,
) (bool, string) {
	for _, l := range out.Lines {
		if strings.TrimSpace(l) != "" {
			return true, "output is not empty"
		}
	}
	return false, "output is empty"
}

// evaluateContains checks that the joined output contains the
// expected substring (case-insensitive).
func evaluateContains(
	def Definition,
	out Output,
) (bool, string) {
	expected, ok := def.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	if strings.Contains(
		strings.ToLower(out.Joined()),
		strings.ToLower(expected),
	) {
		return true, fmt.Sprintf("contains '%s'", expected)
	}

	return false, fmt.Sprintf(
		"does not contain '%s'", expected,
	)
}

// evaluateNotContains checks that the joined output does not
// contain the given substring (case-insensitive).
func evaluateNotContains(
	def Definition,
	out Output,
) (bool, string) {
	expected, ok := def.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	if strings.Contains(
		strings.ToLower(out.Joined()),
		strings.ToLower(expected),
	) {
		return false, fmt.Sprintf(
			"unexpectedly contains '%s'", expected,
		)
	}

	return true, fmt.Sprintf(
		"does not contain '%s'", expected,
	)
}

// evaluateContainsAny checks that the joined output contains at
// least one of the expected substrings.
func evaluateContainsAny(
	def Definition,
	out Output,
) (bool, string) {
	var values []string
	switch v := def.Value.(type) {
	case string:
		values = strings.Split(v, ",")
	default:
		for _, item := range def.Values {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	}

	if len(values) == 0 {
		return false, "no expected values provided"
	}

	lower := strings.ToLower(out.Joined())
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.Contains(lower, strings.ToLower(v)) {
			return true, fmt.Sprintf("contains '%s'", v)
		}
	}

	return false, fmt.Sprintf(
		"contains none of %v", values,
	)
}

// evaluateEquals checks that the joined output equals the
// expected string exactly.
func evaluateEquals(
	def Definition,
	out Output,
) (bool, string) {
	expected, ok := def.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	if out.Joined() == expected {
		return true, "output matches expected text"
	}

	return false, fmt.Sprintf(
		"output does not equal '%s'", expected,
	)
}

// evaluatePrefix checks that the first line of the output has
// the expected prefix.
func evaluatePrefix(
	def Definition,
	out Output,
) (bool, string) {
	expected, ok := def.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	if len(out.Lines) == 0 {
		return false, "output is empty"
	}

	if strings.HasPrefix(out.Lines[0], expected) {
		return true, fmt.Sprintf(
			"first line starts with '%s'", expected,
		)
	}

	return false, fmt.Sprintf(
		"first line does not start with '%s'", expected,
	)
}

// evaluateRegex checks that the joined output matches the
// expected regular expression.
func evaluateRegex(
	def Definition,
	out Output,
) (bool, string) {
	pattern, ok := def.Value.(string)
	if !ok {
		return false, "expected value is not a string"
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf(
			"invalid pattern '%s': %v", pattern, err,
		)
	}

	if re.MatchString(out.Joined()) {
		return true, fmt.Sprintf("matches /%s/", pattern)
	}

	return false, fmt.Sprintf(
		"does not match /%s/", pattern,
	)
}

// evaluateLineCount checks that the output has exactly the
// expected number of lines.
func evaluateLineCount(
	def Definition,
	out Output,
) (bool, string) {
	expected, ok := toInt(def.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	if len(out.Lines) == expected {
		return true, fmt.Sprintf(
			"output has %d lines", expected,
		)
	}

	return false, fmt.Sprintf(
		"expected %d lines, got %d",
		expected, len(out.Lines),
	)
}

// evaluateMinLines checks that the output has at least the
// expected number of lines.
func evaluateMinLines(
	def Definition,
	out Output,
) (bool, string) {
	expected, ok := toInt(def.Value)
	if !ok {
		return false, "expected value is not a number"
	}

	if len(out.Lines) >= expected {
		return true, fmt.Sprintf(
			"output has %d lines (minimum %d)",
			len(out.Lines), expected,
		)
	}

	return false, fmt.Sprintf(
		"expected at least %d lines, got %d",
		expected, len(out.Lines),
	)
}

// evaluateOneOf checks that the joined output equals one of
// the expected values exactly.
func evaluateOneOf(
	def Definition,
	out Output,
) (bool, string) {
	if len(def.Values) == 0 {
		return false, "no expected values provided"
	}

	joined := out.Joined()
	for _, v := range def.Values {
		if s, ok := v.(string); ok && joined == s {
			return true, fmt.Sprintf("equals '%s'", s)
		}
	}

	return false, fmt.Sprintf(
		"output equals none of %d expected values",
		len(def.Values),
	)
}

// toInt normalizes the numeric types JSON and YAML decoders
// produce into an int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
