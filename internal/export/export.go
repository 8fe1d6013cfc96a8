// Package export serializes the finalized product list into downloadable
// CSV or JSON artifacts.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/orderflow/orderflow/internal/common"
	"github.com/orderflow/orderflow/internal/model"
)

// Format selects the export serialization.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DefaultFileName returns the conventional artifact name for a format.
func DefaultFileName(format Format) string {
	return "products." + string(format)
}

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, s)
	}
}

// CSV writes the records as comma-separated values: a fixed header row, one
// row per record in the given order. String fields are always quoted with
// internal quotes doubled; the price is emitted as-is with no currency
// formatting. An empty category stays an empty quoted field.
func CSV(w io.Writer, products []model.Product) error {
	if _, err := io.WriteString(w, "Description,Price,Category\n"); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range products {
		row := fmt.Sprintf("%s,%s,%s\n",
			quote(p.Description),
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			quote(p.Category))
		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// jsonProduct holds only the persisted-intent fields; the session-local id,
// advisory AI fields and status are stripped.
type jsonProduct struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// JSON writes the records as a pretty-printed array of
// {description, price, category} objects, preserving the given order.
func JSON(w io.Writer, products []model.Product) error {
	out := make([]jsonProduct, len(products))
	for i, p := range products {
		out[i] = jsonProduct{
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteFile serializes the records to path in the given format. An empty
// record list is an explicit no-op: no file is created and
// common.ErrNothingToExport is returned for the caller to surface as info.
func WriteFile(path string, format Format, products []model.Product) error {
	if len(products) == 0 {
		return common.ErrNothingToExport
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	var writeErr error
	switch format {
	case FormatCSV:
		writeErr = CSV(f, products)
	case FormatJSON:
		writeErr = JSON(f, products)
	default:
		writeErr = fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, format)
	}

	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	return writeErr
}

// quote wraps a string field in double quotes, doubling internal quotes per
// standard CSV quoting.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
