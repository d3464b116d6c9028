package workspace

import (
	"sort"

	"github.com/mesh-intelligence/backdesk/internal/view"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// LowStockThreshold is the stock level at or below which a product counts as
// low on the dashboard.
const LowStockThreshold = 5

// ResourceSummary is one dashboard row.
type ResourceSummary struct {
	Name   string
	Count  int
	Status types.FetchStatus
	Stale  bool
}

// Summary is the dashboard view over every store.
type Summary struct {
	Resources        []ResourceSummary
	InventoryValue   float64
	LowStock         int
	QuotesTotal      float64
	InvoicesTotal    float64
	InvoicesOpen     float64
	PurchasesTotal   float64
	InvoicesByStatus map[string]int
	QuotesByStatus   map[string]int
}

// Summary computes the dashboard from the current store contents.
func (w *Workspace) Summary() Summary {
	var sum Summary
	names := make([]string, 0, len(w.stores))
	for name := range w.stores {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := w.stores[name]
		sum.Resources = append(sum.Resources, ResourceSummary{
			Name:   name,
			Count:  s.Len(),
			Status: s.Status(),
			Stale:  s.Stale(),
		})
	}

	if s, ok := w.stores[types.ResourceProducts]; ok {
		for _, p := range s.Items() {
			price, _ := fieldNumber(p, "price")
			stock, ok := fieldNumber(p, "stock")
			sum.InventoryValue += price * stock
			if ok && stock <= LowStockThreshold {
				sum.LowStock++
			}
		}
	}
	if s, ok := w.stores[types.ResourceQuotes]; ok {
		items := s.Items()
		sum.QuotesTotal = view.Sum(items, "total")
		sum.QuotesByStatus = view.CountBy(items, "status")
	}
	if s, ok := w.stores[types.ResourceInvoices]; ok {
		items := s.Items()
		sum.InvoicesTotal = view.Sum(items, "total")
		sum.InvoicesByStatus = view.CountBy(items, "status")
		for _, inv := range items {
			status, _ := inv.Field("status")
			switch types.StringValue(status) {
			case types.DocumentPaid, types.DocumentVoid, types.DocumentDraft:
			default:
				total, _ := fieldNumber(inv, "total")
				sum.InvoicesOpen += total
			}
		}
	}
	if s, ok := w.stores[types.ResourcePurchases]; ok {
		sum.PurchasesTotal = view.Sum(s.Items(), "total")
	}
	return sum
}

func fieldNumber(e types.Entity, name string) (float64, bool) {
	v, _ := e.Field(name)
	return types.NumberValue(v)
}
