// Package qrcode renders the tracking QR code printed on order receipts.
package qrcode

import (
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// Generator encodes tracking links for orders.
type Generator struct {
	BaseURL string
	Size    int
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{BaseURL: strings.TrimRight(baseURL, "/"), Size: DefaultSize}
}

// TrackingURL is the customer-facing page that follows an order.
func (g *Generator) TrackingURL(orderID string) string {
	return g.BaseURL + "/suivi/" + orderID
}

// PNG renders the tracking link of orderID.
func (g *Generator) PNG(orderID string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = DefaultSize
	}
	return goqrcode.Encode(g.TrackingURL(orderID), goqrcode.Medium, size)
}
