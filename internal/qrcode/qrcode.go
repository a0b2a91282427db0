// Package qrcode builds and resolves the QR payloads printed on service orders and equipment.
package qrcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goqr "github.com/skip2/go-qrcode"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

const (
	separator = "|"

	// DefaultSize is the PNG edge length in pixels.
	DefaultSize = 256
)

var (
	ErrMalformed        = errors.New("malformed QR payload")
	ErrCustomerMismatch = errors.New("QR payload does not match the order customer")
)

// OrderPayload is the decoded content of an order QR code.
type OrderPayload struct {
	Reference string
	Customer  string
	Requested time.Time
}

func (p OrderPayload) String() string {
	return strings.Join([]string{p.Reference, p.Customer, p.Requested.UTC().Format(time.RFC3339)}, separator)
}

func ForOrder(o *order.Order) OrderPayload {
	return OrderPayload{Reference: o.Reference, Customer: o.CustomerName, Requested: o.DateRequested}
}

// ForEquipment returns the "name|serial|owner" payload of an equipment label.
func ForEquipment(e *equipment.Equipment) string {
	return strings.Join([]string{e.Name, e.SerialNumber, e.CustomerName}, separator)
}

// ParseOrder splits a scanned payload. Extra fields after the date are ignored.
func ParseOrder(payload string) (OrderPayload, error) {
	parts := strings.Split(payload, separator)
	if len(parts) < 3 || parts[0] == "" {
		return OrderPayload{}, ErrMalformed
	}

	p := OrderPayload{Reference: parts[0], Customer: parts[1]}

	if parts[2] != "" {
		requested, err := time.Parse(time.RFC3339, parts[2])
		if err != nil {
			return OrderPayload{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		p.Requested = requested
	}

	return p, nil
}

// PNG renders content as a QR image with low error correction.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	png, err := goqr.Encode(content, goqr.Low, size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}

	return png, nil
}

type OrderFinder interface {
	GetByReference(ctx context.Context, reference string) (*order.Order, error)
}

// Scanner resolves scanned order payloads.
type Scanner struct {
	orders OrderFinder
}

func NewScanner(orders OrderFinder) *Scanner {
	return &Scanner{orders: orders}
}

// Resolve returns the order a payload points at. A malformed payload reports
// order.ErrNotFound; a customer name that does not match reports ErrCustomerMismatch.
func (s *Scanner) Resolve(ctx context.Context, payload string) (*order.Order, error) {
	p, err := ParseOrder(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", order.ErrNotFound, err)
	}

	o, err := s.orders.GetByReference(ctx, p.Reference)
	if err != nil {
		return nil, fmt.Errorf("resolving QR payload: %w", err)
	}

	if o.CustomerName != p.Customer {
		return nil, ErrCustomerMismatch
	}

	return o, nil
}
