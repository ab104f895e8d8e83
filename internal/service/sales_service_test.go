package service

import (
	"strings"
	"testing"
	"time"

	"stocktrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	date, err := time.Parse("2006-01-02", "2024-01-01")
	require.NoError(t, err)

	records := []models.SaleRecord{
		{SaleID: 1, ProductName: "Widget", QuantitySold: 2, SaleDate: date},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, records))

	expected := "Sale ID,Product Name,Quantity Sold,Sale Date\n" +
		"1,Widget,2,2024-01-01\n"
	assert.Equal(t, expected, sb.String())
}

func TestWriteCSVEmptyLog(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, nil))
	assert.Equal(t, "Sale ID,Product Name,Quantity Sold,Sale Date\n", sb.String())
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	date, err := time.Parse("2006-01-02", "2024-06-15")
	require.NoError(t, err)

	records := []models.SaleRecord{
		{SaleID: 7, ProductName: "Nuts, assorted", QuantitySold: 1, SaleDate: date},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, records))
	assert.Contains(t, sb.String(), `"Nuts, assorted"`)
}
