package collaborators

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/orders/ports"
	settingsports "github.com/Apurer/catering-api/internal/domains/settings/ports"
)

var _ ports.PricingPolicy = (*Pricing)(nil)

// Pricing reads the delivery fee rule from the settings context.
type Pricing struct {
	settings settingsports.Service
}

func NewPricing(settings settingsports.Service) *Pricing {
	return &Pricing{settings: settings}
}

func (p *Pricing) DeliveryFee(ctx context.Context, subtotal decimal.Decimal) (decimal.Decimal, error) {
	return p.settings.DeliveryFee(ctx, subtotal)
}
