package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"golang.org/x/text/currency"
)

type StripeCheckoutService struct {
	eventName  string
	failureUrl string
	successUrl string
}

func NewStripeCheckoutService(eventName, failureUrl, successUrl string) *StripeCheckoutService {
	return &StripeCheckoutService{
		eventName:  eventName,
		failureUrl: failureUrl,
		successUrl: successUrl,
	}
}

func (s *StripeCheckoutService) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	params, err := s.checkoutSessionParams(req)
	if err != nil {
		return nil, err
	}

	params.Context = ctx

	checkoutSession, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe checkout session: %w", err)
	}

	return &domain.CheckoutResult{
		ID:          checkoutSession.ID,
		RedirectURL: checkoutSession.URL,
	}, nil
}

func (s *StripeCheckoutService) checkoutSessionParams(req domain.CheckoutRequest) (*stripe.CheckoutSessionParams, error) {
	unit, err := currency.ParseISO(req.Currency)
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindConfig, fmt.Sprintf("unsupported currency %q", req.Currency), nil)
	}

	scale, _ := currency.Standard.Rounding(unit)
	minorUnits := decimal.New(1, int32(scale))

	var lineItems []*stripe.CheckoutSessionLineItemParams

	for _, item := range req.Items {
		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(unit.String())),
				UnitAmount: stripe.Int64(item.Price.Mul(minorUnits).Round(0).IntPart()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("%s - %s", s.eventName, item.Label)),
					Description: stripe.String(fmt.Sprintf(
						"Category: %s • Ticket: %s",
						item.Category,
						item.TicketType,
					)),
				},
			},
			Quantity: stripe.Int64(1),
		}

		lineItems = append(lineItems, lineItem)
	}

	seatIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		seatIDs[i] = item.SeatID
	}

	return &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"hold_token":  req.HoldToken,
			"seat_ids":    strings.Join(seatIDs, ","),
			"total_price": req.TotalPrice.StringFixed(int32(scale)),
		},
		ClientReferenceID: stripe.String(req.HoldToken),
	}, nil
}
