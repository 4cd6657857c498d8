package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/metinatakli/seating-session/internal/domain"
)

// LocalCheckoutService accepts every checkout without contacting a payment
// provider. It is used when no Stripe key is configured.
type LocalCheckoutService struct {
	successUrl string
}

func NewLocalCheckoutService(successUrl string) *LocalCheckoutService {
	return &LocalCheckoutService{
		successUrl: successUrl,
	}
}

func (l *LocalCheckoutService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	return &domain.CheckoutResult{
		ID:          id,
		RedirectURL: fmt.Sprintf("%s?checkout_id=%s", l.successUrl, id),
	}, nil
}
