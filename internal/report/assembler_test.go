package report

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow-system/internal/analytics"
	"wareflow-system/internal/database/models"
	"wareflow-system/internal/inventory"
	"wareflow-system/internal/orders"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func completeProfile() CompanyProfile {
	return CompanyProfile{
		Name:     "Acme Warehousing",
		Address:  "1 Dock Road, Springfield",
		Currency: "USD",
	}
}

func testEngine(items []models.InventoryItem, orderRows []models.Order) (*analytics.Engine, *inventory.Index) {
	idx := inventory.NewIndex(items)
	eng := analytics.NewEngine(idx, orders.NewLedger(orderRows), nil, testNow, rand.New(rand.NewSource(1)))
	return eng, idx
}

func TestAssembleDashboardReport(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, SKU: "SKU-001", Name: "Widget", OverstockQuantity: 100, ReorderLevel: 10, UnitCost: "2.00", Location: "A-01-02-3-B"},
		{ID: 2, SKU: "SKU-002", Name: "Gadget", OverstockQuantity: 0, ReorderLevel: 10, UnitCost: "4.00"},
	}
	orderRows := []models.Order{
		{ID: 1, Type: models.OrderTypeSales, Date: "2025-06-01", TotalAmount: "100.00"},
	}
	eng, idx := testEngine(items, orderRows)

	got, err := AssembleDashboardReport(completeProfile(), eng, idx, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Acme Warehousing", got.Company.Name)
	assert.Equal(t, testNow, got.GeneratedAt)
	assert.Equal(t, "200.00", got.StockValue)
	assert.Equal(t, 1, got.LowStockCount)
	assert.Equal(t, 1, got.OutOfStockCount)
	require.Len(t, got.LowStock, 1)
	assert.Equal(t, "SKU-002", got.LowStock[0].SKU)
	assert.Equal(t, models.StatusOutOfStock, got.LowStock[0].Status)
	assert.Len(t, got.Trend, 6)
	assert.Len(t, got.Forecast, 9)
	assert.NotEmpty(t, got.TurnoverRate)
}

func TestAssembleDashboardReportRequiresProfile(t *testing.T) {
	eng, idx := testEngine(nil, nil)

	tests := []struct {
		name    string
		profile CompanyProfile
		missing []string
	}{
		{
			name:    "all_missing",
			profile: CompanyProfile{},
			missing: []string{"company name", "address", "currency"},
		},
		{
			name:    "currency_missing",
			profile: CompanyProfile{Name: "Acme", Address: "1 Dock Road"},
			missing: []string{"currency"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssembleDashboardReport(tt.profile, eng, idx, testNow)
			require.Error(t, err)

			var incomplete *IncompleteProfileError
			require.ErrorAs(t, err, &incomplete)
			assert.Equal(t, tt.missing, incomplete.Missing)
			assert.Contains(t, err.Error(), "complete onboarding")
		})
	}
}

func TestBuildPutawayLabel(t *testing.T) {
	item := models.InventoryItem{
		SKU:                "SKU-001",
		Name:               "Widget",
		Location:           "A-01-02-3-B",
		PickingBinLocation: "PICK-01-01-1-A",
		LotNumber:          "LOT-42",
		ExpirationDate:     "2026-01-31",
		SerialNumber:       "SN-100",
		OverstockQuantity:  25,
	}

	label, err := BuildPutawayLabel(completeProfile(), item)
	require.NoError(t, err)

	assert.Equal(t, "Acme Warehousing", label.CompanyName)
	assert.Equal(t, "SKU-001|A-01-02-3-B|LOT-42", label.QRContent)
	assert.Equal(t, int32(25), label.Quantity)
	assert.Equal(t, "LOT-42", label.LotNumber)
	assert.Equal(t, "2026-01-31", label.ExpirationDate)
	assert.Equal(t, "SN-100", label.SerialNumber)
}

func TestBuildPutawayLabelRequiresProfile(t *testing.T) {
	_, err := BuildPutawayLabel(CompanyProfile{}, models.InventoryItem{SKU: "SKU-001"})
	var incomplete *IncompleteProfileError
	require.ErrorAs(t, err, &incomplete)
}

func TestInventoryImportTemplate(t *testing.T) {
	tpl := InventoryImportTemplate()
	lines := strings.Split(strings.TrimRight(tpl, "\n"), "\n")
	require.Len(t, lines, 2)

	header := strings.Split(lines[0], ",")
	example := strings.Split(lines[1], ",")
	assert.Equal(t, len(header), len(example))
	assert.Equal(t, "sku", header[0])
	assert.Contains(t, header, "picking_bin_location")
}

func TestCustomerImportTemplate(t *testing.T) {
	tpl := CustomerImportTemplate()
	lines := strings.Split(strings.TrimRight(tpl, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,email,phone,company,address", lines[0])
}
