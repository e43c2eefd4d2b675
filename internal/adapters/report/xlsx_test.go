package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/petalkids/internal/domain"
)

func TestExportOrders(t *testing.T) {
	id := uuid.New()
	orders := []domain.Order{{
		ID:             id,
		Status:         domain.OrderStatusPending,
		Email:          "parent@example.com",
		Shipping:       domain.ShippingAddress{FirstName: "Asha", City: "Pune", Postcode: "411001"},
		Subtotal:       decimal.NewFromInt(1997),
		DiscountCode:   "MAGIC10",
		DiscountAmount: decimal.RequireFromString("199.7"),
		Total:          decimal.RequireFromString("1797.3"),
		CreatedAt:      time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ProductID: "p1", Title: "Rose Gown", Qty: 2, UnitPrice: decimal.RequireFromString("998.5")},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportOrders(&buf, orders))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ordersSheet, itemsSheet}, f.GetSheetList())
	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, id.String(), rows[1][0])
	assert.Equal(t, "2024-05-01 10:30", rows[1][1])
	assert.Equal(t, "MAGIC10", rows[1][11])
	assert.Equal(t, "1797.3", rows[1][13])

	items, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{id.String(), "p1", "Rose Gown", "2", "998.5", "1997"}, items[1])
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseProductsXLSX(t *testing.T) {
	data := workbook(t, [][]any{
		{"Petal Kids catalogue"},
		{"ID", "Name", "Price", "Original price", "Sizes", "Color", "Stock", "Is New Arrival", "Category"},
		{"p1", "Rose Gown", "1,997", "2499", "2-3Y, 4-5Y", "Pink,White", "2-3Y:2, 4-5Y:0", "yes", "Girls 2-3Y"},
		{"p2", "Tee", "abc", "", "", "", "", "", ""},
		{"p3", "Cap", "99", "", "", "", "S-1", "", ""},
		{"", "Sock pack", "120", "", "", "", "", "no", ""},
	})

	products, problems, err := ParseProductsXLSX(data)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Len(t, problems, 2)
	assert.Contains(t, problems[0], "row 4")
	assert.Contains(t, problems[1], "row 5")

	p := products[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "1997", p.Price.String())
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, "2499", p.OriginalPrice.String())
	assert.Equal(t, []string{"2-3Y", "4-5Y"}, p.Sizes)
	assert.Equal(t, []string{"Pink", "White"}, p.Colors)
	assert.Equal(t, map[string]int{"2-3Y": 2, "4-5Y": 0}, p.Stock)
	assert.True(t, p.IsNewArrival)
	assert.Equal(t, "Girls 2-3Y", p.Category)

	assert.Equal(t, "Sock pack", products[1].Name)
	assert.Empty(t, products[1].ID)
	assert.False(t, products[1].IsNewArrival)
}

func TestParseProductsXLSX_NoHeader(t *testing.T) {
	_, _, err := ParseProductsXLSX(workbook(t, [][]any{{"foo", "bar"}}))
	assert.ErrorIs(t, err, ErrNoHeader)

	_, _, err = ParseProductsXLSX([]byte("not a workbook"))
	assert.Error(t, err)
}
