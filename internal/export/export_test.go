package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderflow/orderflow/internal/common"
	"github.com/orderflow/orderflow/internal/model"
)

func TestCSVExactFormat(t *testing.T) {
	products := []model.Product{
		{ID: "1", Description: "A, B", Price: 1.5, Category: "X", Status: model.StatusProcessed},
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, products))

	assert.Equal(t, "Description,Price,Category\n\"A, B\",1.5,\"X\"\n", buf.String())
}

func TestCSVQuotingAndEmptyCategory(t *testing.T) {
	products := []model.Product{
		{Description: `24" monitor`, Price: 199.9, Category: "Displays"},
		{Description: "Uncategorized thing", Price: 3, Category: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, products))

	want := "Description,Price,Category\n" +
		"\"24\"\" monitor\",199.9,\"Displays\"\n" +
		"\"Uncategorized thing\",3,\"\"\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONStripsInternalFields(t *testing.T) {
	products := []model.Product{
		{
			ID:           "abc",
			Description:  "USB cable",
			Price:        4.99,
			Category:     "Cables",
			AICategory:   "Cables & Adapters",
			AIConfidence: 0.9,
			Status:       model.StatusProcessed,
		},
		{
			ID:          "def",
			Description: "Mystery",
			Price:       0,
			Status:      model.StatusError,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, products))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	for _, obj := range decoded {
		assert.Len(t, obj, 3)
		assert.Contains(t, obj, "description")
		assert.Contains(t, obj, "price")
		assert.Contains(t, obj, "category")
	}

	assert.Equal(t, "USB cable", decoded[0]["description"])
	assert.Equal(t, "Mystery", decoded[1]["description"])
	assert.Equal(t, "", decoded[1]["category"])
}

func TestJSONPreservesOrder(t *testing.T) {
	products := []model.Product{
		{Description: "first"},
		{Description: "second"},
		{Description: "third"},
	}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, products))

	var decoded []jsonProduct
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "first", decoded[0].Description)
	assert.Equal(t, "second", decoded[1].Description)
	assert.Equal(t, "third", decoded[2].Description)
}

func TestWriteFileEmptyListIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	err := WriteFile(path, FormatCSV, nil)
	assert.ErrorIs(t, err, common.ErrNothingToExport)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file may be created for an empty list")
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	products := []model.Product{
		{Description: "Widget", Price: 9.99, Category: "General"},
	}

	csvPath := filepath.Join(dir, "products.csv")
	require.NoError(t, WriteFile(csvPath, FormatCSV, products))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Description,Price,Category\n\"Widget\",9.99,\"General\"\n", string(data))

	jsonPath := filepath.Join(dir, "products.json")
	require.NoError(t, WriteFile(jsonPath, FormatJSON, products))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description": "Widget"`)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
