package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/domain"
)

type mapSource struct {
	codes map[string]domain.DiscountCode
	err   error
	calls int
}

func (m *mapSource) LookupCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	dc, ok := m.codes[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &dc, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newSource() *mapSource {
	past := time.Now().Add(-time.Hour)
	return &mapSource{codes: map[string]domain.DiscountCode{
		"TEN":     {Code: "TEN", Type: domain.DiscountPercent, Value: d("10")},
		"FIFTY":   {Code: "FIFTY", Type: domain.DiscountAmount, Value: d("50")},
		"OLD":     {Code: "OLD", Type: domain.DiscountPercent, Value: d("20"), ExpiresAt: &past},
		"USEDUP":  {Code: "USEDUP", Type: domain.DiscountAmount, Value: d("5"), MaxUses: 2, Uses: 2},
		"WEIRDO":  {Code: "WEIRDO", Type: "bogus", Value: d("5")},
		"PARTIAL": {Code: "PARTIAL", Type: domain.DiscountAmount, Value: d("5"), MaxUses: 2, Uses: 1},
	}}
}

func TestResolve_Percent(t *testing.T) {
	r := NewResolver(newSource())
	a, err := r.Resolve(context.Background(), "  ten ", d("200"))
	require.NoError(t, err)

	assert.Equal(t, "TEN", a.Code)
	assert.True(t, a.Amount.Equal(d("20")))
	assert.True(t, a.Clamped(d("200")).Equal(d("20")))
}

func TestResolve_AmountIsClamped(t *testing.T) {
	r := NewResolver(newSource())
	a, err := r.Resolve(context.Background(), "fifty", d("30"))
	require.NoError(t, err)

	assert.True(t, a.Amount.Equal(d("50")))
	applied := a.Clamped(d("30"))
	assert.True(t, applied.Equal(d("30")))
	assert.True(t, d("30").Sub(applied).IsZero())
}

func TestResolve_Invalid(t *testing.T) {
	r := NewResolver(newSource())
	for _, code := range []string{"", "   ", "NOPE", "old", "usedup", "weirdo"} {
		_, err := r.Resolve(context.Background(), code, d("100"))
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}

	_, err := r.Resolve(context.Background(), "partial", d("100"))
	assert.NoError(t, err)
}

func TestResolve_LookupFailureIsInvalidCode(t *testing.T) {
	src := newSource()
	src.err = errors.New("connection refused")
	_, err := NewResolver(src).Resolve(context.Background(), "TEN", d("100"))
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResolve_RecomputesForNewSubtotal(t *testing.T) {
	src := newSource()
	r := NewResolver(src)

	a1, err := r.Resolve(context.Background(), "TEN", d("200"))
	require.NoError(t, err)
	a2, err := r.Resolve(context.Background(), "TEN", d("200"))
	require.NoError(t, err)
	assert.True(t, a1.Amount.Equal(a2.Amount))

	a3, err := r.Resolve(context.Background(), "TEN", d("1997"))
	require.NoError(t, err)
	assert.True(t, a3.Amount.Equal(d("199.7")))
	assert.Equal(t, 3, src.calls)
}

func TestResolve_ExpiryUsesClock(t *testing.T) {
	src := newSource()
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	src.codes["NY"] = domain.DiscountCode{Code: "NY", Type: domain.DiscountAmount, Value: d("1"), ExpiresAt: &exp}
	r := NewResolver(src)

	r.now = func() time.Time { return exp.Add(-time.Minute) }
	_, err := r.Resolve(context.Background(), "ny", d("10"))
	assert.NoError(t, err)

	r.now = func() time.Time { return exp.Add(time.Minute) }
	_, err = r.Resolve(context.Background(), "ny", d("10"))
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestClamp(t *testing.T) {
	assert.True(t, Clamp(d("-5"), d("10")).IsZero())
	assert.True(t, Clamp(d("5"), d("-10")).IsZero())
	assert.True(t, Clamp(d("5"), d("10")).Equal(d("5")))
}
