package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/anouar36/B2B-TradeHub/internal/promos/domain"
	"github.com/anouar36/B2B-TradeHub/internal/promos/ports"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// PromoUseCase handles promo code management and validation
type PromoUseCase struct {
	repo ports.PromoCodeRepository
	tx   ports.TxRunner
	log  *logger.Logger
}

// NewPromoUseCase creates a new promo use case
func NewPromoUseCase(repo ports.PromoCodeRepository, tx ports.TxRunner, log *logger.Logger) *PromoUseCase {
	return &PromoUseCase{repo: repo, tx: tx, log: log}
}

// CreatePromoInput represents the input for creating a promo code
type CreatePromoInput struct {
	Code            string
	DiscountPercent decimal.Decimal
	ValidFrom       time.Time
	ValidUntil      time.Time
	SingleUse       bool
}

// CreatePromo registers a new active promo code
func (uc *PromoUseCase) CreatePromo(ctx context.Context, input CreatePromoInput) (*domain.PromoCode, error) {
	promo, err := domain.NewPromoCode(input.Code, input.DiscountPercent, input.ValidFrom, input.ValidUntil, input.SingleUse)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, promo); err != nil {
		return nil, apperrors.NewInternal("failed to create promo code", err)
	}

	uc.log.WithContext(ctx).Info("promo code created",
		zap.String("code", promo.Code),
		zap.String("discount_percent", promo.DiscountPercent.StringFixed(2)),
		zap.Bool("single_use", promo.SingleUse),
	)

	return promo, nil
}

// GetPromo retrieves a promo code by its code string
func (uc *PromoUseCase) GetPromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	return uc.repo.GetByCode(ctx, code)
}

// ListPromos retrieves all promo codes
func (uc *PromoUseCase) ListPromos(ctx context.Context) ([]*domain.PromoCode, error) {
	return uc.repo.List(ctx)
}

// DeactivatePromo turns a promo code off. The row is read under a lock in
// its own transaction so a concurrent MarkUsed cannot write a stale
// Active flag back over the deactivation.
func (uc *PromoUseCase) DeactivatePromo(ctx context.Context, code string) error {
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		promo, err := uc.repo.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}

		promo.Deactivate()
		if err := uc.repo.Update(ctx, promo); err != nil {
			return apperrors.NewInternal("failed to deactivate promo code", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.WithContext(ctx).Info("promo code deactivated", zap.String("code", code))
	return nil
}

// Resolve returns the promo code if it validates as of the given date, or
// nil for unknown, inactive, expired or consumed codes. Pricing treats a
// nil result as zero discount; an invalid code never fails order creation.
func (uc *PromoUseCase) Resolve(ctx context.Context, code string, asOf time.Time) (*domain.PromoCode, error) {
	promo, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !promo.ValidAt(asOf) {
		return nil, nil
	}

	return promo, nil
}

// MarkUsed consumes a single-use code after an order confirmation. Unknown
// codes are ignored; re-marking a used code is a no-op. Callers run this
// inside the confirming transaction; the locked read serializes it against
// concurrent deactivations and other confirmations of the same code.
func (uc *PromoUseCase) MarkUsed(ctx context.Context, code string) error {
	promo, err := uc.repo.GetByCodeForUpdate(ctx, code)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil
		}
		return err
	}

	if !promo.SingleUse || promo.Used {
		return nil
	}

	promo.MarkUsed()
	if err := uc.repo.Update(ctx, promo); err != nil {
		return apperrors.NewInternal("failed to mark promo code used", err)
	}

	uc.log.WithContext(ctx).Info("promo code consumed", zap.String("code", code))
	return nil
}
