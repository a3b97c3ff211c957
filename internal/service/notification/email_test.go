package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sneakerspot/internal/service/checkout/domain"
)

func confirmationEvent() *domain.OrderConfirmedEvent {
	return &domain.OrderConfirmedEvent{
		OrderID: 17,
		UserID:  7,
		Email:   "jane@example.com",
		Lines: []domain.PricedLine{
			{BrandName: "Nike", ProductName: "Air Max 90", Quantity: 2, UnitPrice: 90, TotalPrice: 180},
		},
		Subtotal: 180,
		Tax:      11.25,
		Total:    191.25,
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	email := RenderOrderConfirmation(confirmationEvent(), "Jane", "SneakerSpot Team")

	assert.Equal(t, "jane@example.com", email.To)
	assert.Equal(t, "Order #17 confirmed", email.Subject)

	assert.Contains(t, email.TextBody, "Hi Jane,")
	assert.Contains(t, email.TextBody, "Nike Air Max 90: 2 x $90.00 = $180.00")
	assert.Contains(t, email.TextBody, "Subtotal: $180.00")
	assert.Contains(t, email.TextBody, "Tax (6.25%): $11.25")
	assert.Contains(t, email.TextBody, "Total: $191.25")
	assert.Contains(t, email.TextBody, "SneakerSpot Team")

	assert.Contains(t, email.HTMLBody, "<li>Nike Air Max 90: 2 x $90.00 = $180.00</li>")
	assert.Contains(t, email.HTMLBody, "<strong>Total: $191.25</strong>")
}

func TestRenderOrderConfirmationNoFirstName(t *testing.T) {
	email := RenderOrderConfirmation(confirmationEvent(), "", "SneakerSpot Team")
	assert.Contains(t, email.TextBody, "Hi,\n")
}
