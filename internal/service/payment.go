package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/grishakov/retail-platform/internal/models"
)

// Confirmer is the seam between the order state machine and whatever settles
// the money. A real processor slots in without touching checkout.
type Confirmer interface {
	// Begin prepares payment for a freshly placed order and may attach an
	// external session token to it.
	Begin(ctx context.Context, order *models.Order) error
	// Confirm settles the payment, flipping the order's payment status.
	Confirm(ctx context.Context, order *models.Order) error
}

// CashOnDelivery needs no external session; payment stays pending until the
// courier collects.
type CashOnDelivery struct{}

func (CashOnDelivery) Begin(ctx context.Context, order *models.Order) error {
	order.PaymentStatus = models.PaymentStatusPending
	return nil
}

func (CashOnDelivery) Confirm(ctx context.Context, order *models.Order) error {
	order.PaymentStatus = models.PaymentStatusPaid
	return nil
}

// SimulatedGateway mints a fake external session token instead of talking to
// a processor. Confirm always succeeds.
type SimulatedGateway struct{}

func (SimulatedGateway) Begin(ctx context.Context, order *models.Order) error {
	order.PaymentSession = "sim_" + uuid.NewString()
	return nil
}

func (SimulatedGateway) Confirm(ctx context.Context, order *models.Order) error {
	if order.PaymentSession == "" {
		return fmt.Errorf("no payment session on order %s: %w", order.OrderNumber, ErrValidation)
	}
	order.PaymentStatus = models.PaymentStatusPaid
	return nil
}

func ConfirmerFor(method models.PaymentMethod) (Confirmer, error) {
	switch method {
	case models.PaymentMethodCOD:
		return CashOnDelivery{}, nil
	case models.PaymentMethodCard:
		return SimulatedGateway{}, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q: %w", method, ErrValidation)
	}
}
