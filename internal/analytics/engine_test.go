package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/inventory"
	"wareflow-system/internal/orders"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(items []models.InventoryItem, orderRows []models.Order, movements []models.StockMovement, seed int64) *Engine {
	return NewEngine(
		inventory.NewIndex(items),
		orders.NewLedger(orderRows),
		movements,
		testNow,
		rand.New(rand.NewSource(seed)),
	)
}

func TestTurnoverRate(t *testing.T) {
	item := models.InventoryItem{ID: 1, OverstockQuantity: 10, UnitCost: "6.00"}
	zeroCostItem := models.InventoryItem{ID: 2, OverstockQuantity: 10, UnitCost: "0.00"}
	sale := models.Order{ID: 1, Type: models.OrderTypeSales, Date: "2025-06-01", TotalAmount: "100.00"}

	tests := []struct {
		name     string
		items    []models.InventoryItem
		orders   []models.Order
		expected string
	}{
		{name: "no_items", items: nil, orders: []models.Order{sale}, expected: "0x"},
		{name: "no_orders", items: []models.InventoryItem{item}, orders: nil, expected: "0x"},
		{name: "zero_inventory_cost", items: []models.InventoryItem{zeroCostItem}, orders: []models.Order{sale}, expected: "N/A"},
		// (100 * 0.6) / 60 = 1.0
		{name: "normal", items: []models.InventoryItem{item}, orders: []models.Order{sale}, expected: "1.0x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(tt.items, tt.orders, nil, 1)
			assert.Equal(t, tt.expected, eng.TurnoverRate())
		})
	}
}

func TestLowStockAndOutOfStock(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, Name: "Empty", OverstockQuantity: 0, ReorderLevel: 10},
		{ID: 2, Name: "Short", OverstockQuantity: 5, ReorderLevel: 10},
		{ID: 3, Name: "Full", OverstockQuantity: 50, ReorderLevel: 10},
	}
	eng := newTestEngine(items, nil, nil, 1)

	low := eng.LowStock()
	require.Len(t, low, 2)
	// the out-of-stock item is also low stock
	assert.Equal(t, int64(1), low[0].ID)
	assert.Equal(t, int64(2), low[1].ID)

	out := eng.OutOfStock()
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestStockValueTrendFinalBucketIsExact(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, OverstockQuantity: 100, UnitCost: "2.00"},
	}
	// two sales orders within a 7-day window; they must not disturb the
	// final bucket
	orderRows := []models.Order{
		{ID: 1, Type: models.OrderTypeSales, Date: "2025-06-08", TotalAmount: "100.00"},
		{ID: 2, Type: models.OrderTypeSales, Date: "2025-06-12", TotalAmount: "200.00"},
	}

	for seed := int64(1); seed <= 3; seed++ {
		eng := newTestEngine(items, orderRows, nil, seed)
		trend := eng.StockValueTrend(6)
		require.Len(t, trend, 6)

		final := trend[5]
		assert.Equal(t, "Jun", final.Month)
		assert.True(t, final.Actual)
		assert.Equal(t, 200.0, final.Value)
	}
}

func TestStockValueTrendReplaysMovements(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, OverstockQuantity: 100, UnitCost: "2.00"}, // live total 200
	}
	movements := []models.StockMovement{
		{ID: 1, ItemID: 1, Amount: 10, UnitCost: "2.00", CreatedAt: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, ItemID: 1, Amount: 20, UnitCost: "2.00", CreatedAt: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
	}
	eng := newTestEngine(items, nil, movements, 1)

	trend := eng.StockValueTrend(6)
	require.Len(t, trend, 6)

	// May had movements, so its bucket is the live total minus the June
	// delta (20 units at 2.00)
	may := trend[4]
	assert.Equal(t, "May", may.Month)
	assert.True(t, may.Actual)
	assert.Equal(t, 160.0, may.Value)

	// April had none and is an interpolated estimate
	april := trend[3]
	assert.Equal(t, "Apr", april.Month)
	assert.False(t, april.Actual)
	assert.Greater(t, april.Value, 0.0)
}

func TestDemandForecast(t *testing.T) {
	orderRows := []models.Order{
		{ID: 1, Type: models.OrderTypeSales, Date: "2025-04-05", TotalAmount: "300.00"},
		{ID: 2, Type: models.OrderTypeSales, Date: "2025-05-05", TotalAmount: "600.00"},
		{ID: 3, Type: models.OrderTypeSales, Date: "2025-06-05", TotalAmount: "900.00"},
		{ID: 4, Type: models.OrderTypeSales, Date: "not-a-date", TotalAmount: "9999.00"},
		{ID: 5, Type: models.OrderTypePurchase, Date: "2025-05-20", TotalAmount: "5000.00"},
	}
	eng := newTestEngine(nil, orderRows, nil, 42)

	points := eng.DemandForecast(6, 3)
	require.Len(t, points, 9)

	// history months are actual sums; malformed dates and purchases are
	// not counted
	assert.Equal(t, 0.0, points[0].Value)
	assert.Equal(t, 300.0, points[3].Value)
	assert.Equal(t, 600.0, points[4].Value)
	assert.Equal(t, 900.0, points[5].Value)
	for _, p := range points[:6] {
		assert.False(t, p.Forecast)
	}

	// forecast months: mean of trailing 3 history months (600) within 5%
	for _, p := range points[6:] {
		assert.True(t, p.Forecast)
		assert.InDelta(t, 600.0, p.Value, 600.0*0.05+0.01)
	}
	assert.Equal(t, "Jul", points[6].Month)
	assert.Equal(t, "Sep", points[8].Month)
}

func TestDemandForecastDeterministicForSameSeed(t *testing.T) {
	orderRows := []models.Order{
		{ID: 1, Type: models.OrderTypeSales, Date: "2025-05-05", TotalAmount: "600.00"},
	}
	a := newTestEngine(nil, orderRows, nil, 7).DemandForecast(6, 3)
	b := newTestEngine(nil, orderRows, nil, 7).DemandForecast(6, 3)
	assert.Equal(t, a, b)
}

func TestProfitabilityBreakdown(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, SKU: "SKU-001", OverstockQuantity: 100, UnitCost: "60.00"},
	}
	orderRows := []models.Order{
		{
			ID: 1, Type: models.OrderTypeSales, Date: "2025-06-01", TotalAmount: "1000.00",
			Items: []models.OrderItem{
				{InventoryItemID: 1, Quantity: 10, UnitPrice: "100.00"},
			},
		},
	}
	eng := newTestEngine(items, orderRows, nil, 1)

	p := eng.ProfitabilityBreakdown()
	assert.Equal(t, 1000.0, p.Revenue)
	assert.Equal(t, 600.0, p.CostOfGoodsSold)
	assert.Equal(t, 40, p.GrossMarginPct)
	assert.Equal(t, 20, p.OperatingExpensePct)
	assert.Equal(t, 20, p.NetMarginPct)
	assert.Equal(t, 5, p.SimulatedLossesPct)
}

func TestProfitabilityFallbackCost(t *testing.T) {
	// line references an unknown item; COGS falls back to 70% of the sale
	// unit price
	orderRows := []models.Order{
		{
			ID: 1, Type: models.OrderTypeSales, Date: "2025-06-01", TotalAmount: "1000.00",
			Items: []models.OrderItem{
				{InventoryItemID: 99, Quantity: 10, UnitPrice: "100.00"},
			},
		},
	}
	eng := newTestEngine(nil, orderRows, nil, 1)

	p := eng.ProfitabilityBreakdown()
	assert.Equal(t, 700.0, p.CostOfGoodsSold)
	assert.Equal(t, 30, p.GrossMarginPct)
	assert.Equal(t, 10, p.NetMarginPct)
}

func TestProfitabilityZeroRevenue(t *testing.T) {
	eng := newTestEngine(nil, nil, nil, 1)
	p := eng.ProfitabilityBreakdown()
	assert.Equal(t, 0.0, p.Revenue)
	assert.Equal(t, 0, p.GrossMarginPct)
	assert.Equal(t, 0, p.NetMarginPct)
	assert.Equal(t, 20, p.OperatingExpensePct)
	assert.Equal(t, 5, p.SimulatedLossesPct)
}

func TestTopSellingItems(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, SKU: "SKU-001", Name: "Empty", OverstockQuantity: 0},
		{ID: 2, SKU: "SKU-002", Name: "Small", OverstockQuantity: 10},
		{ID: 3, SKU: "SKU-003", Name: "Big", OverstockQuantity: 1000},
		{ID: 4, SKU: "SKU-004", Name: "Mid", OverstockQuantity: 500},
	}
	eng := newTestEngine(items, nil, nil, 99)

	sellers := eng.TopSellingItems(5)
	require.NotEmpty(t, sellers)
	assert.LessOrEqual(t, len(sellers), 5)

	for _, s := range sellers {
		assert.NotEqual(t, int64(1), s.ItemID, "zero-quantity items are excluded")
		assert.Greater(t, s.UnitsSold, 0)
	}
	for i := 1; i < len(sellers); i++ {
		assert.GreaterOrEqual(t, sellers[i-1].UnitsSold, sellers[i].UnitsSold)
	}

	// simulated values are pinned by the seed
	again := newTestEngine(items, nil, nil, 99).TopSellingItems(5)
	assert.Equal(t, sellers, again)
}

func TestTopSellingItemsLimit(t *testing.T) {
	items := make([]models.InventoryItem, 0, 10)
	for i := 1; i <= 10; i++ {
		items = append(items, models.InventoryItem{
			ID: int64(i), OverstockQuantity: int32(100 * i),
		})
	}
	eng := newTestEngine(items, nil, nil, 5)
	assert.Len(t, eng.TopSellingItems(5), 5)
}
