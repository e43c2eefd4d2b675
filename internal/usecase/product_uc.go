package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/domain"
)

type ProductUC struct {
	Products domain.ProductRepo
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.Products.List(ctx, domain.ProductFilter{})
}

func (uc *ProductUC) ListNewArrivals(ctx context.Context) ([]domain.Product, error) {
	yes := true
	return uc.Products.List(ctx, domain.ProductFilter{NewArrival: &yes})
}

func (uc *ProductUC) ListTrending(ctx context.Context) ([]domain.Product, error) {
	yes := true
	return uc.Products.List(ctx, domain.ProductFilter{Trending: &yes})
}

func (uc *ProductUC) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	return uc.Products.FindByID(ctx, id)
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return fmt.Errorf("%w: original price must not be negative", ErrInvalidProduct)
	}
	for size, n := range p.Stock {
		if n < 0 {
			return fmt.Errorf("%w: negative stock for size %s", ErrInvalidProduct, size)
		}
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	return nil
}

func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Reviews = nil
	return uc.Products.Save(ctx, p)
}

// Update replaces the editable fields of an existing product. Reviews are
// managed separately and are left untouched.
func (uc *ProductUC) Update(ctx context.Context, id string, p *domain.Product) error {
	existing, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.Reviews = nil
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrNotFound
	}
	return uc.Products.Delete(ctx, id)
}

func (uc *ProductUC) AddReview(ctx context.Context, productID, name string, rating int, comment string) (*domain.Review, error) {
	if !domain.ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Anonymous"
	}
	if _, err := uc.Products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	r := &domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		Date:      time.Now(),
	}
	if err := uc.Products.AddReview(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CartItem resolves what goes into the bag for a product and size. A product
// with sizes needs one of them, and tracked stock must cover the quantity
// already in the bag plus qty.
func (uc *ProductUC) CartItem(ctx context.Context, productID, size string, qty int, l *cart.Ledger) (cart.Item, error) {
	p, err := uc.Products.FindByID(ctx, productID)
	if err != nil {
		return cart.Item{}, err
	}
	size = strings.TrimSpace(size)
	if p.HasSizes() {
		if size == "" || !p.OffersSize(size) {
			return cart.Item{}, ErrSizeRequired
		}
	} else {
		size = ""
	}

	item := cart.Item{
		ID:        cart.LineID(p.ID, size),
		ProductID: p.ID,
		Size:      size,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     p.Image,
	}
	if size != "" {
		item.Name = p.Name + " (" + size + ")"
	}
	if avail, tracked := p.StockFor(size); tracked {
		inBag := 0
		if ln, ok := l.Line(item.ID); ok {
			inBag = ln.Quantity
		}
		if inBag+qty > avail {
			return cart.Item{}, ErrOutOfStock
		}
	}
	return item, nil
}

type ImportReport struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Import upserts products by id. Bad rows are reported and skipped.
func (uc *ProductUC) Import(ctx context.Context, products []domain.Product) (ImportReport, error) {
	var rep ImportReport
	for i := range products {
		p := products[i]
		existing, err := uc.Products.FindByID(ctx, p.ID)
		switch {
		case err == nil:
			err = uc.Update(ctx, existing.ID, &p)
			if err == nil {
				rep.Updated++
				continue
			}
		case errors.Is(err, domain.ErrNotFound):
			err = uc.Create(ctx, &p)
			if err == nil {
				rep.Created++
				continue
			}
		}
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		rep.Failed++
		rep.Errors = append(rep.Errors, fmt.Sprintf("row %d (%s): %v", i+1, p.ID, err))
	}
	return rep, nil
}
