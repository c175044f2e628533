// Package analytics computes derived dashboard metrics over inventory and
// order snapshots. Every computation is pure with respect to its inputs;
// repeated invocation with identical inputs and the same seed produces
// identical output.
package analytics

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/inventory"
	"wareflow-system/internal/orders"
)

const monthLabelLayout = "Jan"

// Flat percentage models used where real telemetry is absent.
const (
	operatingExpensePct = 20
	simulatedLossesPct  = 5
)

type TrendPoint struct {
	Month  string  `json:"month"`
	Value  float64 `json:"value"`
	Actual bool    `json:"actual"`
}

type ForecastPoint struct {
	Month    string  `json:"month"`
	Value    float64 `json:"value"`
	Forecast bool    `json:"forecast"`
}

type Profitability struct {
	Revenue             float64 `json:"revenue"`
	CostOfGoodsSold     float64 `json:"cost_of_goods_sold"`
	GrossMarginPct      int     `json:"gross_margin_pct"`
	OperatingExpensePct int     `json:"operating_expense_pct"`
	NetMarginPct        int     `json:"net_margin_pct"`
	SimulatedLossesPct  int     `json:"simulated_losses_pct"`
}

type TopSeller struct {
	ItemID    int64  `json:"item_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

// Engine combines an inventory snapshot, an order ledger and the stock
// movement audit log. The ledger is expected to already be scoped to the
// caller's date window where one applies. Randomized placeholder values are
// drawn from the injected source so callers can pin them.
type Engine struct {
	idx       *inventory.Index
	ledger    *orders.Ledger
	movements []models.StockMovement
	now       time.Time
	rng       *rand.Rand
}

func NewEngine(idx *inventory.Index, ledger *orders.Ledger, movements []models.StockMovement, now time.Time, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	return &Engine{
		idx:       idx,
		ledger:    ledger,
		movements: movements,
		now:       now,
		rng:       rng,
	}
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// jitter returns a multiplier uniformly distributed in [1-bound, 1+bound].
func (e *Engine) jitter(bound float64) float64 {
	return 1 + (e.rng.Float64()*2-1)*bound
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (e *Engine) salesRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, o := range e.ledger.Sales() {
		total = total.Add(parseAmount(o.TotalAmount))
	}
	return total
}

// StockValueTrend estimates total stock value per month for the trailing
// window. The final bucket is always the exact live total. Earlier buckets
// replay the stock movement audit log backwards where the month has recorded
// movements; months without movements are filled with a smoothed
// interpolation toward the live total plus bounded jitter. The filled values
// are placeholder estimates, not a statistical forecast.
func (e *Engine) StockValueTrend(months int) []TrendPoint {
	current, _ := inventory.TotalValue(e.idx.Items()).Float64()
	firstOfMonth := time.Date(e.now.Year(), e.now.Month(), 1, 0, 0, 0, 0, e.now.Location())

	points := make([]TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		monthsAgo := months - 1 - i
		start := firstOfMonth.AddDate(0, -monthsAgo, 0)
		end := start.AddDate(0, 1, 0)

		var point TrendPoint
		switch {
		case monthsAgo == 0:
			point = TrendPoint{Month: start.Format(monthLabelLayout), Value: round2(current), Actual: true}
		case e.monthHasMovements(start, end):
			point = TrendPoint{Month: start.Format(monthLabelLayout), Value: round2(e.replayValueAt(end)), Actual: true}
		default:
			progress := float64(i) / float64(months-1)
			estimate := current * (0.7 + 0.3*progress) * e.jitter(0.10)
			if estimate < 0 {
				estimate = 0
			}
			point = TrendPoint{Month: start.Format(monthLabelLayout), Value: round2(estimate), Actual: false}
		}
		points = append(points, point)
	}
	return points
}

func (e *Engine) monthHasMovements(start, end time.Time) bool {
	for _, m := range e.movements {
		if !m.CreatedAt.Before(start) && m.CreatedAt.Before(end) {
			return true
		}
	}
	return false
}

// replayValueAt reconstructs stock value at the cutoff instant by undoing
// every movement recorded after it.
func (e *Engine) replayValueAt(cutoff time.Time) float64 {
	value := inventory.TotalValue(e.idx.Items())
	for _, m := range e.movements {
		if m.CreatedAt.Before(cutoff) {
			continue
		}
		delta := parseAmount(m.UnitCost).Mul(decimal.NewFromInt32(m.Amount))
		value = value.Sub(delta)
	}
	f, _ := value.Float64()
	if f < 0 {
		return 0
	}
	return f
}

// TurnoverRate reports inventory turnover over the ledger's window as a
// display string: "0x" when there are no items or no orders at all, "N/A"
// when inventory cost is zero, else (salesRevenue * 0.6) / inventoryCost
// fixed to one decimal followed by "x".
func (e *Engine) TurnoverRate() string {
	if len(e.idx.Items()) == 0 || len(e.ledger.Orders()) == 0 {
		return "0x"
	}
	inventoryCost := inventory.TotalValue(e.idx.Items())
	if inventoryCost.IsZero() {
		return "N/A"
	}
	rate := e.salesRevenue().Mul(decimal.NewFromFloat(0.6)).Div(inventoryCost)
	return rate.StringFixed(1) + "x"
}

// DemandForecast returns actual monthly sales sums for the trailing history
// months followed by horizon forecast months. Each forecast value is the
// mean of the trailing three historical months perturbed by up to 5%,
// floored at zero.
func (e *Engine) DemandForecast(historyMonths, horizonMonths int) []ForecastPoint {
	sums := make(map[string]decimal.Decimal)
	for _, o := range e.ledger.Sales() {
		d, ok := orders.ParseDate(o.Date)
		if !ok {
			continue
		}
		key := d.Format("2006-01")
		sums[key] = sums[key].Add(parseAmount(o.TotalAmount))
	}

	firstOfMonth := time.Date(e.now.Year(), e.now.Month(), 1, 0, 0, 0, 0, e.now.Location())
	points := make([]ForecastPoint, 0, historyMonths+horizonMonths)

	history := make([]float64, 0, historyMonths)
	for i := historyMonths - 1; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0)
		actual, _ := sums[month.Format("2006-01")].Float64()
		history = append(history, actual)
		points = append(points, ForecastPoint{Month: month.Format(monthLabelLayout), Value: round2(actual)})
	}

	trailing := history
	if len(trailing) > 3 {
		trailing = trailing[len(trailing)-3:]
	}
	var mean float64
	if len(trailing) > 0 {
		for _, v := range trailing {
			mean += v
		}
		mean /= float64(len(trailing))
	}

	for i := 1; i <= horizonMonths; i++ {
		month := firstOfMonth.AddDate(0, i, 0)
		value := mean * e.jitter(0.05)
		if value < 0 {
			value = 0
		}
		points = append(points, ForecastPoint{Month: month.Format(monthLabelLayout), Value: round2(value), Forecast: true})
	}
	return points
}

// ProfitabilityBreakdown models margins over the ledger's sales orders.
// Cost of goods sold per line uses the matching inventory item's unit cost
// when resolvable, else 70% of the sale unit price as a fallback estimate.
// Operating expense is a flat 20% of revenue and simulated losses a flat 5%;
// both are placeholders for absent telemetry.
func (e *Engine) ProfitabilityBreakdown() Profitability {
	revenue := e.salesRevenue()
	cogs := decimal.Zero
	for _, o := range e.ledger.Sales() {
		for _, line := range o.Items {
			qty := decimal.NewFromInt32(line.Quantity)
			unitCost := decimal.Zero
			if item := e.idx.ByID(line.InventoryItemID); item != nil {
				unitCost = parseAmount(item.UnitCost)
			}
			if unitCost.IsZero() {
				unitCost = parseAmount(line.UnitPrice).Mul(decimal.NewFromFloat(0.7))
			}
			cogs = cogs.Add(unitCost.Mul(qty))
		}
	}

	result := Profitability{
		OperatingExpensePct: operatingExpensePct,
		SimulatedLossesPct:  simulatedLossesPct,
	}
	result.Revenue, _ = revenue.Round(2).Float64()
	result.CostOfGoodsSold, _ = cogs.Round(2).Float64()
	if revenue.IsZero() {
		return result
	}

	gross := revenue.Sub(cogs).Div(revenue).Mul(decimal.NewFromInt(100))
	result.GrossMarginPct = int(gross.Round(0).IntPart())
	result.NetMarginPct = result.GrossMarginPct - operatingExpensePct
	return result
}

// TopSellingItems ranks items by a simulated units-sold figure proportional
// to current on-hand quantity. This is a placeholder in the absence of real
// per-SKU sales tracking and must not be read as actual sales history.
// Items with zero simulated sales are excluded; ties keep input order.
func (e *Engine) TopSellingItems(limit int) []TopSeller {
	sellers := []TopSeller{}
	for _, it := range e.idx.Items() {
		qty := it.Quantity()
		if qty == 0 {
			continue
		}
		units := int(math.Round(float64(qty) * (0.2 + 0.5*e.rng.Float64())))
		if units == 0 {
			continue
		}
		sellers = append(sellers, TopSeller{
			ItemID:    it.ID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitsSold: units,
		})
	}
	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].UnitsSold > sellers[j].UnitsSold
	})
	if len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers
}

// LowStock returns items at or below their reorder level, out-of-stock
// items included.
func (e *Engine) LowStock() []models.InventoryItem {
	matched := []models.InventoryItem{}
	for _, it := range e.idx.Items() {
		if it.Quantity() <= it.ReorderLevel {
			matched = append(matched, it)
		}
	}
	return matched
}

// OutOfStock returns items with zero total quantity.
func (e *Engine) OutOfStock() []models.InventoryItem {
	matched := []models.InventoryItem{}
	for _, it := range e.idx.Items() {
		if it.Quantity() == 0 {
			matched = append(matched, it)
		}
	}
	return matched
}
