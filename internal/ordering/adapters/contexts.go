package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalogapp "github.com/anouar36/B2B-TradeHub/internal/catalog/application"
	catalog "github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
	clientsapp "github.com/anouar36/B2B-TradeHub/internal/clients/application"
	clients "github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	promosapp "github.com/anouar36/B2B-TradeHub/internal/promos/application"
	promos "github.com/anouar36/B2B-TradeHub/internal/promos/domain"
)

// ClientDirectoryAdapter exposes the client context through the ordering
// ClientDirectory port
type ClientDirectoryAdapter struct {
	uc *clientsapp.ClientUseCase
}

// NewClientDirectoryAdapter creates a directory backed by the client use case
func NewClientDirectoryAdapter(uc *clientsapp.ClientUseCase) *ClientDirectoryAdapter {
	return &ClientDirectoryAdapter{uc: uc}
}

// GetClient retrieves a client by ID
func (a *ClientDirectoryAdapter) GetClient(ctx context.Context, id uint) (*clients.Client, error) {
	return a.uc.GetClient(ctx, id)
}

// RecordConfirmedOrder updates the client's loyalty statistics
func (a *ClientDirectoryAdapter) RecordConfirmedOrder(ctx context.Context, clientID uint, orderTotal decimal.Decimal) error {
	_, err := a.uc.RecordConfirmedOrder(ctx, clientID, orderTotal)
	return err
}

// ProductCatalogAdapter exposes the catalog context through the ordering
// ProductCatalog port
type ProductCatalogAdapter struct {
	uc *catalogapp.CatalogUseCase
}

// NewProductCatalogAdapter creates a catalog backed by the catalog use case
func NewProductCatalogAdapter(uc *catalogapp.CatalogUseCase) *ProductCatalogAdapter {
	return &ProductCatalogAdapter{uc: uc}
}

// GetProduct retrieves a product by ID
func (a *ProductCatalogAdapter) GetProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	return a.uc.GetProduct(ctx, id)
}

// CheckAvailable reports whether the product has at least qty units in stock
func (a *ProductCatalogAdapter) CheckAvailable(ctx context.Context, productID uint, qty int) (bool, error) {
	return a.uc.CheckAvailable(ctx, productID, qty)
}

// CommitDeduction deducts qty units under a row lock
func (a *ProductCatalogAdapter) CommitDeduction(ctx context.Context, productID uint, qty int) error {
	return a.uc.CommitDeduction(ctx, productID, qty)
}

// PromoResolverAdapter exposes the promo context through the ordering
// PromoResolver port
type PromoResolverAdapter struct {
	uc *promosapp.PromoUseCase
}

// NewPromoResolverAdapter creates a resolver backed by the promo use case
func NewPromoResolverAdapter(uc *promosapp.PromoUseCase) *PromoResolverAdapter {
	return &PromoResolverAdapter{uc: uc}
}

// Resolve returns the promo code if it is valid at asOf, or nil otherwise
func (a *PromoResolverAdapter) Resolve(ctx context.Context, code string, asOf time.Time) (*promos.PromoCode, error) {
	return a.uc.Resolve(ctx, code, asOf)
}

// MarkUsed consumes a single-use promo code
func (a *PromoResolverAdapter) MarkUsed(ctx context.Context, code string) error {
	return a.uc.MarkUsed(ctx, code)
}
