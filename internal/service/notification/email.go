// Package notification consumes order-confirmed events and mails the
// customer their receipt.
package notification

import (
	"fmt"
	"strings"

	"sneakerspot/internal/service/checkout/domain"
)

// Email is a rendered message ready for the SMTP sender.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// RenderOrderConfirmation builds the receipt from the event. All figures are
// the checkout-time snapshots carried in the event; nothing is recomputed.
func RenderOrderConfirmation(event *domain.OrderConfirmedEvent, firstName, fromName string) *Email {
	subject := fmt.Sprintf("Order #%d confirmed", event.OrderID)

	var text strings.Builder
	greeting := "Hi"
	if firstName != "" {
		greeting = "Hi " + firstName
	}
	fmt.Fprintf(&text, "%s,\n\n", greeting)
	fmt.Fprintf(&text, "Thanks for your order! Here is your receipt for order #%d:\n\n", event.OrderID)
	for _, line := range event.Lines {
		fmt.Fprintf(&text, "  %s %s: %d x $%.2f = $%.2f\n",
			line.BrandName, line.ProductName, line.Quantity, line.UnitPrice, line.TotalPrice)
	}
	fmt.Fprintf(&text, "\nSubtotal: $%.2f\n", event.Subtotal)
	fmt.Fprintf(&text, "Tax (6.25%%): $%.2f\n", event.Tax)
	fmt.Fprintf(&text, "Total: $%.2f\n\n", event.Total)
	fmt.Fprintf(&text, "%s\n", fromName)

	var html strings.Builder
	fmt.Fprintf(&html, "<p>%s,</p>", greeting)
	fmt.Fprintf(&html, "<p>Thanks for your order! Here is your receipt for order #%d:</p>", event.OrderID)
	html.WriteString("<ul>")
	for _, line := range event.Lines {
		fmt.Fprintf(&html, "<li>%s %s: %d x $%.2f = $%.2f</li>",
			line.BrandName, line.ProductName, line.Quantity, line.UnitPrice, line.TotalPrice)
	}
	html.WriteString("</ul>")
	fmt.Fprintf(&html, "<p>Subtotal: $%.2f<br>", event.Subtotal)
	fmt.Fprintf(&html, "Tax (6.25%%): $%.2f<br>", event.Tax)
	fmt.Fprintf(&html, "<strong>Total: $%.2f</strong></p>", event.Total)
	fmt.Fprintf(&html, "<p>%s</p>", fromName)

	return &Email{
		To:       event.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}
}
