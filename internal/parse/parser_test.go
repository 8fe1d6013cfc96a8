package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantDescription []string
		wantPrice       []float64
	}{
		{
			name:            "simple description with trailing price",
			input:           "Stainless steel bolts 12.50",
			wantDescription: []string{"Stainless steel bolts"},
			wantPrice:       []float64{12.50},
		},
		{
			name:            "quantity prefix is part of the description",
			input:           "10 x USB cable 4.99",
			wantDescription: []string{"10 x USB cable"},
			wantPrice:       []float64{4.99},
		},
		{
			name:            "currency symbol glued to the number",
			input:           "Office chair $129.99",
			wantDescription: []string{"Office chair"},
			wantPrice:       []float64{129.99},
		},
		{
			name:            "comma decimal separator",
			input:           "Cadeira de escritorio 129,99",
			wantDescription: []string{"Cadeira de escritorio"},
			wantPrice:       []float64{129.99},
		},
		{
			name:            "thousands dot with comma decimal",
			input:           "Notebook gamer 1.299,90",
			wantDescription: []string{"Notebook gamer"},
			wantPrice:       []float64{1299.90},
		},
		{
			name:            "thousands comma with dot decimal",
			input:           "Industrial printer 1,299.90",
			wantDescription: []string{"Industrial printer"},
			wantPrice:       []float64{1299.90},
		},
		{
			name:            "dash separator before price is trimmed",
			input:           "HDMI adapter - 19.90",
			wantDescription: []string{"HDMI adapter"},
			wantPrice:       []float64{19.90},
		},
		{
			name:            "no parseable number keeps full line with zero price",
			input:           "Assorted spare parts",
			wantDescription: []string{"Assorted spare parts"},
			wantPrice:       []float64{0},
		},
		{
			name:            "multiple lines preserve input order",
			input:           "First item 1.00\nSecond item 2.00\nThird item 3.00",
			wantDescription: []string{"First item", "Second item", "Third item"},
			wantPrice:       []float64{1.00, 2.00, 3.00},
		},
		{
			name:            "blank and whitespace-only lines are skipped",
			input:           "First item 1.00\n\n   \n\t\nSecond item 2.00",
			wantDescription: []string{"First item", "Second item"},
			wantPrice:       []float64{1.00, 2.00},
		},
		{
			name:            "windows line endings",
			input:           "First item 1.00\r\nSecond item 2.00\r\n",
			wantDescription: []string{"First item", "Second item"},
			wantPrice:       []float64{1.00, 2.00},
		},
		{
			name:            "rightmost number wins over earlier numbers",
			input:           "Box of 100 screws 8.75",
			wantDescription: []string{"Box of 100 screws"},
			wantPrice:       []float64{8.75},
		},
		{
			name:            "integer price",
			input:           "Delivery fee 15",
			wantDescription: []string{"Delivery fee"},
			wantPrice:       []float64{15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := Products(tt.input)
			require.Len(t, products, len(tt.wantDescription))

			for i, p := range products {
				assert.Equal(t, tt.wantDescription[i], p.Description, "description of line %d", i)
				assert.InDelta(t, tt.wantPrice[i], p.Price, 0.0001, "price of line %d", i)
			}
		})
	}
}

func TestProductsEmptyInput(t *testing.T) {
	assert.Empty(t, Products(""))
	assert.Empty(t, Products("\n \n\t\n"))
}

func TestProductsDraftState(t *testing.T) {
	products := Products("Widget 9.99\nGadget 19.99")
	require.Len(t, products, 2)

	seen := make(map[string]bool)
	for _, p := range products {
		assert.Equal(t, "pending", string(p.Status))
		assert.Empty(t, p.Category)
		assert.Empty(t, p.AICategory)
		assert.Zero(t, p.AIConfidence)
		assert.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "ids must be unique")
		seen[p.ID] = true
	}
}
