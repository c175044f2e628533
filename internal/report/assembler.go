// Package report shapes aggregation outputs into the fixed payloads consumed
// by the dashboard report and label printers, and carries the CSV
// bulk-import templates.
package report

import (
	"fmt"
	"strings"
	"time"

	"wareflow-system/internal/analytics"
	"wareflow-system/internal/database/models"
	"wareflow-system/internal/inventory"
)

// CompanyProfile is the subset of the organization profile stamped onto
// reports. Name, Address and Currency are required before any report can be
// assembled.
type CompanyProfile struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Currency string `json:"currency"`
	LogoURL  string `json:"logo_url,omitempty"`
}

// IncompleteProfileError is a configuration error, not a fault: the
// organization has not finished onboarding. Handlers surface Error() to the
// user as an actionable message.
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("company profile is missing %s: complete onboarding and set your company details",
		strings.Join(e.Missing, ", "))
}

func validateProfile(p CompanyProfile) error {
	missing := []string{}
	if p.Name == "" {
		missing = append(missing, "company name")
	}
	if p.Address == "" {
		missing = append(missing, "address")
	}
	if p.Currency == "" {
		missing = append(missing, "currency")
	}
	if len(missing) > 0 {
		return &IncompleteProfileError{Missing: missing}
	}
	return nil
}

// DashboardReport is the printable summary payload.
type DashboardReport struct {
	Company         CompanyProfile            `json:"company"`
	GeneratedAt     time.Time                 `json:"generated_at"`
	StockValue      string                    `json:"stock_value"`
	TurnoverRate    string                    `json:"turnover_rate"`
	LowStockCount   int                       `json:"low_stock_count"`
	OutOfStockCount int                       `json:"out_of_stock_count"`
	LowStock        []ItemSummary             `json:"low_stock"`
	TopSellers      []analytics.TopSeller     `json:"top_sellers"`
	Trend           []analytics.TrendPoint    `json:"trend"`
	Forecast        []analytics.ForecastPoint `json:"forecast"`
	Profitability   analytics.Profitability   `json:"profitability"`
}

// ItemSummary is the row shape shared by the report tables and CSV export.
type ItemSummary struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int32  `json:"quantity"`
	ReorderLevel int32  `json:"reorder_level"`
	Location     string `json:"location"`
	Status       string `json:"status"`
}

func summarize(items []models.InventoryItem) []ItemSummary {
	rows := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		rows = append(rows, ItemSummary{
			SKU:          it.SKU,
			Name:         it.Name,
			Quantity:     it.Quantity(),
			ReorderLevel: it.ReorderLevel,
			Location:     it.Location,
			Status:       it.Status(),
		})
	}
	return rows
}

// AssembleDashboardReport packages engine outputs with the company profile.
// It validates the profile first and returns an IncompleteProfileError when
// required fields are missing, without touching the engine.
func AssembleDashboardReport(profile CompanyProfile, eng *analytics.Engine, idx *inventory.Index, generatedAt time.Time) (*DashboardReport, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	low := eng.LowStock()
	return &DashboardReport{
		Company:         profile,
		GeneratedAt:     generatedAt,
		StockValue:      inventory.TotalValue(idx.Items()).StringFixed(2),
		TurnoverRate:    eng.TurnoverRate(),
		LowStockCount:   len(low),
		OutOfStockCount: len(eng.OutOfStock()),
		LowStock:        summarize(low),
		TopSellers:      eng.TopSellingItems(5),
		Trend:           eng.StockValueTrend(6),
		Forecast:        eng.DemandForecast(6, 3),
		Profitability:   eng.ProfitabilityBreakdown(),
	}, nil
}

// PutawayLabel is the small fixed-size label printed when stock is stowed.
// QRContent is the string encoded into the label's QR code.
type PutawayLabel struct {
	CompanyName        string `json:"company_name"`
	SKU                string `json:"sku"`
	Name               string `json:"name"`
	Location           string `json:"location"`
	PickingBinLocation string `json:"picking_bin_location"`
	LotNumber          string `json:"lot_number"`
	ExpirationDate     string `json:"expiration_date"`
	SerialNumber       string `json:"serial_number"`
	Quantity           int32  `json:"quantity"`
	QRContent          string `json:"qr_content"`
}

// BuildPutawayLabel shapes one inventory item into a label payload. The
// company name requirement follows the same onboarding rule as reports.
func BuildPutawayLabel(profile CompanyProfile, item models.InventoryItem) (*PutawayLabel, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	return &PutawayLabel{
		CompanyName:        profile.Name,
		SKU:                item.SKU,
		Name:               item.Name,
		Location:           item.Location,
		PickingBinLocation: item.PickingBinLocation,
		LotNumber:          item.LotNumber,
		ExpirationDate:     item.ExpirationDate,
		SerialNumber:       item.SerialNumber,
		Quantity:           item.Quantity(),
		QRContent:          fmt.Sprintf("%s|%s|%s", item.SKU, item.Location, item.LotNumber),
	}, nil
}

// Bulk-import CSV templates: fixed header plus one example data row.

func InventoryImportTemplate() string {
	header := strings.Join([]string{
		"sku", "name", "category", "picking_bin_quantity", "overstock_quantity",
		"reorder_level", "picking_reorder_level", "unit_cost", "retail_price",
		"location", "picking_bin_location",
	}, ",")
	example := strings.Join([]string{
		"SKU-001", "Blue Widget", "Widgets", "25", "100",
		"10", "5", "2.50", "7.99",
		"A-01-02-3-B", "PICK-01-01-1-A",
	}, ",")
	return header + "\n" + example + "\n"
}

func CustomerImportTemplate() string {
	header := strings.Join([]string{
		"name", "email", "phone", "company", "address",
	}, ",")
	example := strings.Join([]string{
		"Jane Doe", "jane@example.com", "+1-555-0100", "Acme Retail", "1 Main St Springfield",
	}, ",")
	return header + "\n" + example + "\n"
}
