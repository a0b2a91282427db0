package order

import (
	"github.com/shopspring/decimal"
)

// BuildInvoice prices a completed order: the service type's product at list price,
// followed by every refaction line.
func BuildInvoice(o *Order) *Invoice {
	inv := &Invoice{OrderID: o.ID, Total: decimal.Zero}

	if p := o.ServiceType.Product; p != nil {
		inv.Lines = append(inv.Lines, InvoiceLine{
			ProductID:   &p.ID,
			Description: p.Name,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   p.ListPrice,
		})
	}

	for _, l := range o.Lines {
		description := l.ProductName
		if l.Notes != "" {
			description += " - " + l.Notes
		}

		inv.Lines = append(inv.Lines, InvoiceLine{
			ProductID:   &l.ProductID,
			Description: description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	for _, l := range inv.Lines {
		inv.Total = inv.Total.Add(l.Subtotal())
	}

	return inv
}
