package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPricesPlausibilityBounds(t *testing.T) {
	markup := `<div class="price">$3.99</div> $52.99 $54.99 $500.00 $999.99 $5.00`

	prices := ExtractPrices(markup)
	require.Equal(t, []float64{52.99, 54.99}, prices)
}

func TestExtractPricesStructuredSourceFirst(t *testing.T) {
	markup := `{"price":"54.49"} <span>$54.49</span> <span>$47.99</span>`

	prices := ExtractPrices(markup)
	// Deduplicated and sorted regardless of which rule found them.
	assert.Equal(t, []float64{47.99, 54.49}, prices)
}

func TestAggregatePrices(t *testing.T) {
	t.Run("two prices", func(t *testing.T) {
		info := AggregatePrices([]float64{52.99, 54.99})
		require.NotNil(t, info)
		assert.Equal(t, 52.99, info.Estimate)
		assert.Equal(t, 53.99, info.Average)
		assert.Equal(t, "$52.99 - $54.99", info.Range)
	})

	t.Run("single price", func(t *testing.T) {
		info := AggregatePrices([]float64{24.50})
		require.NotNil(t, info)
		assert.Equal(t, 24.50, info.Estimate)
		assert.Equal(t, 24.50, info.Average)
		assert.Equal(t, "$24.50", info.Range)
	})

	t.Run("empty set", func(t *testing.T) {
		assert.Nil(t, AggregatePrices(nil))
	})

	t.Run("average rounded to cents", func(t *testing.T) {
		info := AggregatePrices([]float64{10.00, 10.01, 10.01})
		require.NotNil(t, info)
		assert.Equal(t, 10.01, info.Average)
	})
}

func TestExtractPriceLargeInput(t *testing.T) {
	// A page full of implausible values yields no price at all.
	markup := ""
	for i := 0; i < 20; i++ {
		markup += fmt.Sprintf("$%d.00 ", 600+i)
	}
	assert.Nil(t, ExtractPrice(markup))
}
