package reports

import "github.com/ariefcatur/go-realtime-storefront/internal/suppliers"

type SupplierSummary struct {
	Suppliers    int `json:"suppliers"`
	Spent        int `json:"spent"`         // confirmed or received orders
	PendingSpend int `json:"pending_spend"` // orders not yet confirmed
	Invoiced     int `json:"invoiced"`
	Invoices     int `json:"invoices"`
}

// SummarizeSuppliers computes the purchasing dashboard figures.
func SummarizeSuppliers(ss []suppliers.Supplier, purchases []suppliers.Order, invs []suppliers.Invoice) SupplierSummary {
	sum := SupplierSummary{Suppliers: len(ss), Invoices: len(invs)}
	for _, o := range purchases {
		switch o.Status {
		case suppliers.OrderConfirmed, suppliers.OrderReceived:
			sum.Spent += o.Total
		case suppliers.OrderPending:
			sum.PendingSpend += o.Total
		}
	}
	for _, inv := range invs {
		sum.Invoiced += inv.Amount
	}
	return sum
}
