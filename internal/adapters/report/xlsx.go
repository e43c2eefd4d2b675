// Package report reads and writes the spreadsheets used by the back office.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/petalkids/internal/domain"
)

const (
	ordersSheet = "Orders"
	itemsSheet  = "Items"
)

var ErrNoHeader = errors.New("spreadsheet has no header row with a name column")

// ExportOrders writes one row per order plus an item sheet keyed by order id.
func ExportOrders(w io.Writer, orders []domain.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return err
	}

	orderHeader := []any{"Order ID", "Created", "Status", "Email", "First name", "Last name", "Address", "City", "Postcode",
		"Phone", "Subtotal", "Discount code", "Discount", "Total", "Tracking", "Contact opt-in"}
	if err := f.SetSheetRow(ordersSheet, "A1", &orderHeader); err != nil {
		return err
	}
	itemHeader := []any{"Order ID", "Product ID", "Name", "Qty", "Unit price", "Line total"}
	if err := f.SetSheetRow(itemsSheet, "A1", &itemHeader); err != nil {
		return err
	}

	itemRow := 2
	for i, o := range orders {
		row := []any{
			o.ID.String(), o.CreatedAt.Format("2006-01-02 15:04"), string(o.Status), o.Email,
			o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Address, o.Shipping.City, o.Shipping.Postcode,
			o.Shipping.Phone, money(o.Subtotal), o.DiscountCode, money(o.DiscountAmount), money(o.Total),
			o.TrackingNumber, o.ContactOptIn,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return err
		}
		for _, it := range o.Items {
			line := []any{o.ID.String(), it.ProductID, it.Title, it.Qty, money(it.UnitPrice),
				money(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))}
			cell, _ := excelize.CoordinatesToCellName(1, itemRow)
			if err := f.SetSheetRow(itemsSheet, cell, &line); err != nil {
				return err
			}
			itemRow++
		}
	}
	return f.Write(w)
}

func money(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

// ParseProductsXLSX reads products from the first sheet. The first row holding
// a "name" cell is the header; column names are matched case-insensitively.
// List cells are comma separated and stock is written as "S:2, M:0".
// Rows that cannot be read are reported by row number and skipped.
func ParseProductsXLSX(data []byte) ([]domain.Product, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}

	headerAt := -1
	cols := map[string]int{}
	for i, row := range rows {
		for j, c := range row {
			key := strings.ToLower(strings.TrimSpace(c))
			key = strings.NewReplacer(" ", "", "_", "").Replace(key)
			if key != "" {
				cols[key] = j
			}
		}
		if _, ok := cols["name"]; ok {
			headerAt = i
			break
		}
		cols = map[string]int{}
	}
	if headerAt < 0 {
		return nil, nil, ErrNoHeader
	}

	var (
		products []domain.Product
		problems []string
	)
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		get := func(name string) string {
			j, ok := cols[name]
			if !ok || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}
		if get("name") == "" && get("id") == "" {
			continue
		}
		p, err := productFromRow(get)
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		products = append(products, p)
	}
	return products, problems, nil
}

func productFromRow(get func(string) string) (domain.Product, error) {
	p := domain.Product{
		ID:          get("id"),
		Name:        get("name"),
		Description: get("description"),
		Materials:   get("materials"),
		Care:        get("care"),
		SKU:         get("sku"),
		Image:       get("image"),
		Images:      splitList(get("images")),
		Category:    get("category"),
		Type:        get("type"),
		Occasion:    get("occasion"),
		Sizes:       splitList(get("sizes")),
		Colors:      splitList(get("color")),
	}
	if p.Colors == nil {
		p.Colors = splitList(get("colors"))
	}
	if p.Sizes == nil {
		p.Sizes = splitList(get("size"))
	}

	price, err := parseMoney(get("price"))
	if err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	p.Price = price
	if s := get("originalprice"); s != "" {
		op, err := parseMoney(s)
		if err != nil {
			return p, fmt.Errorf("original price: %w", err)
		}
		p.OriginalPrice = &op
	}
	if s := get("stock"); s != "" {
		stock, err := parseStock(s)
		if err != nil {
			return p, err
		}
		p.Stock = stock
	}
	p.IsNewArrival = truthy(get("isnewarrival"))
	p.IsTrending = truthy(get("istrending"))
	return p, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("₹", "", "$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseStock(s string) (map[string]int, error) {
	out := map[string]int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		size, qty, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("stock %q: want size:qty", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("stock %q: %w", part, err)
		}
		out[strings.TrimSpace(size)] = n
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "y", "yes", "true", "x":
		return true
	}
	return false
}
