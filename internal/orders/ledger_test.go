package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wareflow-system/internal/database/models"
)

func testOrders() []models.Order {
	return []models.Order{
		{ID: 1, OrderNumber: "SO-001", Type: models.OrderTypeSales, Date: "2025-03-10", TotalAmount: "100.00"},
		{ID: 2, OrderNumber: "PO-001", Type: models.OrderTypePurchase, Date: "2025-03-15", TotalAmount: "250.00"},
		{ID: 3, OrderNumber: "SO-002", Type: models.OrderTypeSales, Date: "garbage-date", TotalAmount: "50.00"},
		{ID: 4, OrderNumber: "SO-003", Type: models.OrderTypeSales, Date: "2025-04-01", TotalAmount: "200.00"},
		{ID: 5, OrderNumber: "PO-002", Type: models.OrderTypePurchase, Date: "", TotalAmount: "75.00"},
	}
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{name: "date_only", in: "2025-03-10", ok: true},
		{name: "rfc3339", in: "2025-03-10T14:30:00Z", ok: true},
		{name: "datetime", in: "2025-03-10 14:30:00", ok: true},
		{name: "garbage", in: "garbage-date", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFilterByDateRangeInclusiveBounds(t *testing.T) {
	ledger := NewLedger(testOrders())

	// bounds land exactly on order dates; both are included
	got := ledger.FilterByDateRange(date("2025-03-10"), date("2025-04-01"))
	assert.Len(t, got, 3)
	assert.Equal(t, "SO-001", got[0].OrderNumber)
	assert.Equal(t, "SO-003", got[2].OrderNumber)
}

func TestFilterByDateRangeExcludesUnparseable(t *testing.T) {
	ledger := NewLedger(testOrders())

	// a window wide enough for everything still excludes malformed dates
	got := ledger.FilterByDateRange(date("2000-01-01"), date("2100-01-01"))
	for _, o := range got {
		assert.NotEqual(t, "SO-002", o.OrderNumber)
		assert.NotEqual(t, "PO-002", o.OrderNumber)
	}
	assert.Len(t, got, 3)
}

func TestPartitionByTypeIsStable(t *testing.T) {
	sales, purchase := NewLedger(testOrders()).PartitionByType()

	assert.Equal(t, []string{"SO-001", "SO-002", "SO-003"}, orderNumbers(sales))
	assert.Equal(t, []string{"PO-001", "PO-002"}, orderNumbers(purchase))
}

func TestPartitionByTypeDropsUnrecognizedTypes(t *testing.T) {
	mixed := append(testOrders(),
		models.Order{ID: 6, OrderNumber: "TR-001", Type: "Transfer", Date: "2025-03-20", TotalAmount: "999.00"},
		models.Order{ID: 7, OrderNumber: "XX-001", Type: "", Date: "2025-03-21", TotalAmount: "999.00"},
	)
	sales, purchase := NewLedger(mixed).PartitionByType()

	assert.Equal(t, []string{"SO-001", "SO-002", "SO-003"}, orderNumbers(sales))
	assert.Equal(t, []string{"PO-001", "PO-002"}, orderNumbers(purchase))
}

func TestSortByDateInvalidDatesSortLast(t *testing.T) {
	ledger := NewLedger(testOrders())

	asc := ledger.SortByDateAscending()
	assert.Equal(t, []string{"SO-001", "PO-001", "SO-003", "SO-002", "PO-002"}, orderNumbers(asc))

	desc := ledger.SortByDateDescending()
	assert.Equal(t, []string{"SO-003", "PO-001", "SO-001", "SO-002", "PO-002"}, orderNumbers(desc))
}

func TestSortDoesNotMutateLedger(t *testing.T) {
	ledger := NewLedger(testOrders())
	_ = ledger.SortByDateAscending()
	assert.Equal(t, "SO-001", ledger.Orders()[0].OrderNumber)
}

func orderNumbers(orders []models.Order) []string {
	nums := make([]string, 0, len(orders))
	for _, o := range orders {
		nums = append(nums, o.OrderNumber)
	}
	return nums
}
