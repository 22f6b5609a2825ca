package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() MonthlyReport {
	return MonthlyReport{
		Month: "2024-05",
		Total: decimal.NewFromInt(120),
		Count: 3,
		Bars: []Bar{
			{Category: "Food & Dining", Amount: decimal.NewFromInt(80), Percent: decimal.NewFromInt(100)},
			{Category: "Café, Bars", Amount: decimal.NewFromInt(40), Percent: decimal.NewFromInt(50)},
		},
	}
}

func TestCsvReportRendererImpl_Render(t *testing.T) {
	// given
	renderer := NewCsvReportRenderer()

	// when
	result, err := renderer.Render(sampleReport())

	// then
	require.NoError(t, err)
	expected := "Category,Amount,Percent\n" +
		"Food & Dining,80.00,100.00\n" +
		"\"Café, Bars\",40.00,50.00\n" +
		"Total,120.00,\n" +
		"Count,3,\n"
	assert.Equal(t, expected, string(result))
	assert.Equal(t, "csv", renderer.FileExtension())
}

func TestPdfReportRendererImpl_Render(t *testing.T) {
	t.Run("should render a pdf document", func(t *testing.T) {
		// when
		result, err := NewPdfReportRenderer().Render(sampleReport())

		// then
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(result, []byte("%PDF-")))
	})

	t.Run("should render an empty month", func(t *testing.T) {
		// when
		result, err := NewPdfReportRenderer().Render(MonthlyReport{Month: "2024-06"})

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, result)
	})
}
