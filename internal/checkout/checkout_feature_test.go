package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/discount"
	"github.com/phenrril/petalkids/internal/domain"
)

type checkoutTestContext struct {
	products []domain.Product
	results  []domain.Product
	codes    codeTable
	ledger   *cart.Ledger
	sink     *recordingSink
	agg      *Aggregator
	totals   Totals
	err      error
}

func (c *checkoutTestContext) reset() {
	c.products = nil
	c.results = nil
	c.codes = codeTable{}
	c.ledger = cart.New()
	c.sink = &recordingSink{}
	c.agg = New(c.ledger, discount.NewResolver(c.codes), c.sink)
	c.totals = Totals{}
	c.err = nil
}

func (c *checkoutTestContext) theCatalog(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		c.products = append(c.products, domain.Product{
			ID:       row.Cells[0].Value,
			Name:     row.Cells[1].Value,
			Price:    price,
			Category: row.Cells[3].Value,
		})
	}
	return nil
}

func (c *checkoutTestContext) theDiscountCodeWorthPercent(code string, value int) error {
	c.codes[code] = domain.DiscountCode{Code: code, Type: domain.DiscountPercent, Value: decimal.NewFromInt(int64(value))}
	return nil
}

func (c *checkoutTestContext) theDiscountCodeWorthOff(code string, value int) error {
	c.codes[code] = domain.DiscountCode{Code: code, Type: domain.DiscountAmount, Value: decimal.NewFromInt(int64(value))}
	return nil
}

func (c *checkoutTestContext) iFilterByAge(age string) error {
	c.results = catalog.Filter(c.products, catalog.Criteria{Age: &age})
	return nil
}

func (c *checkoutTestContext) theResultsAre(want string) error {
	got := []string{}
	for _, p := range c.results {
		got = append(got, p.ID)
	}
	if strings.Join(got, ",") != want {
		return fmt.Errorf("expected results %q, got %q", want, strings.Join(got, ","))
	}
	return nil
}

func (c *checkoutTestContext) iAddProductWithQuantity(id string, qty int) error {
	for _, p := range c.products {
		if p.ID == id {
			return c.ledger.Add(cart.Item{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Image: p.Image}, qty)
		}
	}
	return fmt.Errorf("product %s not in catalog", id)
}

func (c *checkoutTestContext) theCartTotalIs(want string) error {
	return equalAmount("cart total", c.ledger.Total(), want)
}

func (c *checkoutTestContext) iApplyTheCode(code string) error {
	c.totals, c.err = c.agg.ApplyDiscount(context.Background(), code)
	return nil
}

func (c *checkoutTestContext) theDiscountIs(want string) error {
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return equalAmount("discount", c.totals.Discount, want)
}

func (c *checkoutTestContext) theGrandTotalIs(want string) error {
	return equalAmount("grand total", c.agg.Totals().Total, want)
}

func (c *checkoutTestContext) theCodeIsRejected() error {
	if !errors.Is(c.err, discount.ErrInvalidCode) {
		return fmt.Errorf("expected invalid code, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) iSubmitTheOrderFor(email string) error {
	c.agg.Form = validForm()
	c.agg.Form.Email = email
	_, c.err = c.agg.Submit(context.Background())
	return nil
}

func (c *checkoutTestContext) anOrderIsPlacedWithTotal(want string) error {
	if c.err != nil {
		return fmt.Errorf("expected order but got error: %v", c.err)
	}
	if len(c.sink.payloads) != 1 {
		return fmt.Errorf("expected 1 order, got %d", len(c.sink.payloads))
	}
	return equalAmount("order total", c.sink.payloads[0].Total, want)
}

func (c *checkoutTestContext) theCartIsEmpty() error {
	if !c.ledger.IsEmpty() {
		return fmt.Errorf("expected empty cart, got %d lines", c.ledger.Len())
	}
	return nil
}

func (c *checkoutTestContext) noOrderIsPlaced() error {
	if len(c.sink.payloads) != 0 {
		return fmt.Errorf("expected no order, got %d", len(c.sink.payloads))
	}
	return nil
}

func (c *checkoutTestContext) theCheckoutFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected checkout to fail but it succeeded")
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, c.err.Error())
	}
	return nil
}

func equalAmount(what string, got decimal.Decimal, want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", what, w, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog:$`, tc.theCatalog)
	ctx.Step(`^the discount code "([^"]*)" worth (\d+) percent$`, tc.theDiscountCodeWorthPercent)
	ctx.Step(`^the discount code "([^"]*)" worth (\d+) off$`, tc.theDiscountCodeWorthOff)

	ctx.Step(`^I filter by age "([^"]*)"$`, tc.iFilterByAge)
	ctx.Step(`^I add product "([^"]*)" with quantity (\d+)$`, tc.iAddProductWithQuantity)
	ctx.Step(`^I apply the code "([^"]*)"$`, tc.iApplyTheCode)
	ctx.Step(`^I submit the order for "([^"]*)"$`, tc.iSubmitTheOrderFor)

	ctx.Step(`^the results are "([^"]*)"$`, tc.theResultsAre)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the discount is "([^"]*)"$`, tc.theDiscountIs)
	ctx.Step(`^the grand total is "([^"]*)"$`, tc.theGrandTotalIs)
	ctx.Step(`^the code is rejected$`, tc.theCodeIsRejected)
	ctx.Step(`^an order is placed with total "([^"]*)"$`, tc.anOrderIsPlacedWithTotal)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^no order is placed$`, tc.noOrderIsPlaced)
	ctx.Step(`^the checkout fails with "([^"]*)"$`, tc.theCheckoutFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
