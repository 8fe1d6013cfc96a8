// Package parse turns freeform pasted text into draft product records.
package parse

import (
	"strconv"
	"strings"

	"github.com/orderflow/orderflow/internal/model"
)

// Products parses a block of freeform text, one intended product per line.
// Each non-empty line yields exactly one draft record, in input order: the
// rightmost parseable decimal token becomes the price and the remainder the
// description. Lines with no parseable number are kept with price 0 rather
// than dropped. Blank lines are skipped.
func Products(text string) []model.Product {
	var products []model.Product

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		description, price, found := splitPrice(line)
		if !found {
			products = append(products, model.NewDraft(line, 0))
			continue
		}

		products = append(products, model.NewDraft(description, price))
	}

	return products
}

// splitPrice extracts the rightmost parseable decimal token from the line.
// Returns the remaining text (trimmed) and the parsed value.
func splitPrice(line string) (string, float64, bool) {
	fields := strings.Fields(line)

	for i := len(fields) - 1; i >= 0; i-- {
		price, ok := parseDecimal(fields[i])
		if !ok {
			continue
		}

		rest := append(append([]string{}, fields[:i]...), fields[i+1:]...)
		description := trimSeparators(strings.Join(rest, " "))
		if description == "" {
			// A bare number is still a product line; keep the raw token
			// as description so nothing is silently lost.
			description = strings.TrimSpace(line)
		}
		return description, price, true
	}

	return "", 0, false
}

// parseDecimal parses a price token, tolerating currency symbols and both
// "1,234.56" and "1.234,56" separator conventions.
func parseDecimal(token string) (float64, bool) {
	// Strip currency symbols and other decoration from both ends.
	token = strings.TrimFunc(token, func(r rune) bool {
		return !isDigit(r) && r != '.' && r != ','
	})
	if token == "" || !strings.ContainsFunc(token, isDigit) {
		return 0, false
	}

	lastDot := strings.LastIndexByte(token, '.')
	lastComma := strings.LastIndexByte(token, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The rightmost separator is the decimal point; the other is a
		// thousands separator.
		if lastComma > lastDot {
			token = strings.ReplaceAll(token, ".", "")
			token = strings.Replace(token, ",", ".", 1)
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(token, ",") == 1 && len(token)-lastComma-1 <= 2 {
			token = strings.Replace(token, ",", ".", 1)
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastDot >= 0 && strings.Count(token, ".") > 1:
		// Multiple dots can only be thousands separators.
		token = strings.ReplaceAll(token, ".", "")
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// trimSeparators drops punctuation left dangling after the price token is
// removed, e.g. "Widget -" or "Widget:".
func trimSeparators(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "-–—:;,|")
	return strings.TrimSpace(s)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
