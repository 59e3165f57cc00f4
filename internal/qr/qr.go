// Package qr renders scannable payment codes for the checkout screen.
package qr

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ErrGenerationFailed marks a rendering failure. Non-fatal: the caller
// can retry or offer an alternate payment flow.
var ErrGenerationFailed = errors.New("failed to generate QR code")

const imageSize = 256

// Generate renders a PNG for a payment-intent URI.
func Generate(uri string) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return png, nil
}
