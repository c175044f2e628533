// Package orders provides a read-only snapshot ledger over sales and
// purchase orders.
package orders

import (
	"sort"
	"time"

	"wareflow-system/internal/database/models"
)

// Date layouts accepted for stored order dates, tried in sequence.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a stored order date string. The second return value is
// false when the string matches none of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Ledger is an in-memory snapshot of one organization's orders.
type Ledger struct {
	orders []models.Order
}

func NewLedger(orders []models.Order) *Ledger {
	return &Ledger{orders: orders}
}

// Orders returns the snapshot contents in their original order.
func (l *Ledger) Orders() []models.Order {
	return l.orders
}

// FilterByDateRange returns orders dated within [from, to], inclusive on
// both bounds. An order whose date fails to parse is excluded rather than
// reported as an error; malformed input degrades to "not counted".
func (l *Ledger) FilterByDateRange(from, to time.Time) []models.Order {
	filtered := []models.Order{}
	for _, o := range l.orders {
		d, ok := ParseDate(o.Date)
		if !ok {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

// PartitionByType splits the ledger into sales and purchase orders. The
// partition is stable: relative order within each half is preserved. An
// order with an unrecognized type lands in neither half, so it never
// inflates a revenue aggregate.
func (l *Ledger) PartitionByType() (sales, purchase []models.Order) {
	sales = []models.Order{}
	purchase = []models.Order{}
	for _, o := range l.orders {
		switch o.Type {
		case models.OrderTypeSales:
			sales = append(sales, o)
		case models.OrderTypePurchase:
			purchase = append(purchase, o)
		}
	}
	return sales, purchase
}

// Sales returns the sales orders in original order.
func (l *Ledger) Sales() []models.Order {
	sales, _ := l.PartitionByType()
	return sales
}

// sortByDate returns a sorted copy. Orders with unparseable dates always
// sort after every valid date, keeping their relative input order, so the
// comparator defines a total order regardless of direction.
func (l *Ledger) sortByDate(ascending bool) []models.Order {
	sorted := make([]models.Order, len(l.orders))
	copy(sorted, l.orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, iok := ParseDate(sorted[i].Date)
		dj, jok := ParseDate(sorted[j].Date)
		if !iok || !jok {
			// invalid dates sort last; two invalids keep input order
			return iok && !jok
		}
		if ascending {
			return di.Before(dj)
		}
		return dj.Before(di)
	})
	return sorted
}

func (l *Ledger) SortByDateAscending() []models.Order {
	return l.sortByDate(true)
}

func (l *Ledger) SortByDateDescending() []models.Order {
	return l.sortByDate(false)
}
