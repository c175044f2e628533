package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wareflow-system/internal/analytics"
	"wareflow-system/internal/database/models"
	"wareflow-system/internal/inventory"
	"wareflow-system/internal/orders"
	"wareflow-system/internal/report"
)

// The full report is cached on the short tier; individual widgets can live
// longer because every stock or order mutation invalidates the whole prefix.
const (
	DASHBOARD_CACHE_PREFIX = "dashboard:"
	DASHBOARD_REPORT_KEY   = "dashboard:report:"
	CACHE_TTL_SHORT        = 5 * time.Minute
	CACHE_TTL_MEDIUM       = 30 * time.Minute

	dateLayout = "2006-01-02"
)

var errBadWindow = errors.New("invalid date window")

// InvalidateDashboardCaches drops every cached dashboard payload for one
// organization. Called after any stock or order mutation.
func InvalidateDashboardCaches(ctx context.Context, rdb *redis.Client, organizationID int64) {
	pattern := fmt.Sprintf("%s*:%d:*", DASHBOARD_CACHE_PREFIX, organizationID)
	keys, err := rdb.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = rdb.Del(ctx, keys...)
}

type DashboardHTTPHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewDashboardHTTPHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// dateWindow reads the optional from/to query parameters. The default window
// is the trailing six months ending now. The to bound is extended to the end
// of its day so both bounds are inclusive.
func dateWindow(c *gin.Context, now time.Time) (time.Time, time.Time, error) {
	from := now.AddDate(0, -6, 0)
	to := now
	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return from, to, fmt.Errorf("%w: from date %q, expected YYYY-MM-DD", errBadWindow, s)
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return from, to, fmt.Errorf("%w: to date %q, expected YYYY-MM-DD", errBadWindow, s)
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

// buildEngine assembles an aggregation engine over the organization's
// current snapshots. The placeholder noise source is seeded from the
// organization and window so identical requests produce identical payloads,
// which keeps the cache coherent with recomputation.
func (h *DashboardHTTPHandler) buildEngine(c *gin.Context, now time.Time) (*analytics.Engine, *inventory.Index, error) {
	org := orgID(c)
	from, to, err := dateWindow(c, now)
	if err != nil {
		return nil, nil, err
	}

	var items []models.InventoryItem
	if err := h.db.Where("organization_id = ?", org).Order("id").Find(&items).Error; err != nil {
		return nil, nil, err
	}

	var allOrders []models.Order
	if err := h.db.Preload("Items").Where("organization_id = ?", org).Order("id").Find(&allOrders).Error; err != nil {
		return nil, nil, err
	}

	var movements []models.StockMovement
	if err := h.db.Where("organization_id = ?", org).Order("id").Find(&movements).Error; err != nil {
		return nil, nil, err
	}

	idx := inventory.NewIndex(items)
	windowed := orders.NewLedger(orders.NewLedger(allOrders).FilterByDateRange(from, to))

	seed := org ^ from.Unix() ^ (to.Unix() << 1)
	rng := rand.New(rand.NewSource(seed))
	return analytics.NewEngine(idx, windowed, movements, now, rng), idx, nil
}

func (h *DashboardHTTPHandler) loadProfile(c *gin.Context) (report.CompanyProfile, error) {
	var profile models.OrganizationProfile
	err := h.db.Where("id = ?", orgID(c)).First(&profile).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return report.CompanyProfile{}, err
	}
	return report.CompanyProfile{
		Name:     profile.CompanyName,
		Address:  profile.Address,
		Currency: profile.Currency,
		LogoURL:  profile.LogoURL,
	}, nil
}

// Report returns the full printable dashboard report, cached per
// organization and window for a short TTL.
func (h *DashboardHTTPHandler) Report(c *gin.Context) {
	now := time.Now()
	ctx := c.Request.Context()

	cacheKey := fmt.Sprintf("%s%d:%s:%s", DASHBOARD_REPORT_KEY, orgID(c), c.Query("from"), c.Query("to"))
	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var payload report.DashboardReport
		if json.Unmarshal([]byte(cached), &payload) == nil {
			c.JSON(http.StatusOK, successResponse("dashboard report retrieved", payload))
			return
		}
	}

	eng, idx, err := h.buildEngine(c, now)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	profile, err := h.loadProfile(c)
	if err != nil {
		h.logger.Error("profile load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	payload, err := report.AssembleDashboardReport(profile, eng, idx, now)
	if err != nil {
		var incomplete *report.IncompleteProfileError
		if errors.As(err, &incomplete) {
			c.JSON(http.StatusConflict, APIResponse{
				Success: false,
				Message: incomplete.Error(),
				Meta:    map[string]interface{}{"error": "PROFILE_INCOMPLETE", "missing": incomplete.Missing},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("failed to assemble report"))
		return
	}

	if raw, err := json.Marshal(payload); err == nil {
		_ = h.redis.Set(ctx, cacheKey, raw, CACHE_TTL_SHORT)
	}
	c.JSON(http.StatusOK, successResponse("dashboard report retrieved", payload))
}

func (h *DashboardHTTPHandler) respondEngineError(c *gin.Context, err error) {
	if errors.Is(err, errBadWindow) {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	h.logger.Error("engine build failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
}

// serveWidget serves one dashboard widget, cached per organization and
// window on the medium tier. Cached payloads are returned verbatim; a miss
// computes the payload through the engine and stores it.
func (h *DashboardHTTPHandler) serveWidget(c *gin.Context, widget, message string, compute func(*analytics.Engine, *inventory.Index) interface{}) {
	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("%s%s:%d:%s:%s", DASHBOARD_CACHE_PREFIX, widget, orgID(c), c.Query("from"), c.Query("to"))
	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		c.JSON(http.StatusOK, successResponse(message, json.RawMessage(cached)))
		return
	}

	eng, idx, err := h.buildEngine(c, time.Now())
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	payload := compute(eng, idx)
	if raw, err := json.Marshal(payload); err == nil {
		_ = h.redis.Set(ctx, cacheKey, raw, CACHE_TTL_MEDIUM)
	}
	c.JSON(http.StatusOK, successResponse(message, payload))
}

func (h *DashboardHTTPHandler) Trend(c *gin.Context) {
	h.serveWidget(c, "trend", "stock value trend retrieved", func(eng *analytics.Engine, _ *inventory.Index) interface{} {
		return eng.StockValueTrend(6)
	})
}

func (h *DashboardHTTPHandler) Forecast(c *gin.Context) {
	h.serveWidget(c, "forecast", "demand forecast retrieved", func(eng *analytics.Engine, _ *inventory.Index) interface{} {
		return eng.DemandForecast(6, 3)
	})
}

func (h *DashboardHTTPHandler) Profitability(c *gin.Context) {
	h.serveWidget(c, "profitability", "profitability breakdown retrieved", func(eng *analytics.Engine, _ *inventory.Index) interface{} {
		return eng.ProfitabilityBreakdown()
	})
}

func (h *DashboardHTTPHandler) TopSellers(c *gin.Context) {
	h.serveWidget(c, "top-sellers", "top selling items retrieved", func(eng *analytics.Engine, _ *inventory.Index) interface{} {
		return eng.TopSellingItems(5)
	})
}

// Metrics returns the headline numbers shared by several dashboard cards.
func (h *DashboardHTTPHandler) Metrics(c *gin.Context) {
	h.serveWidget(c, "metrics", "dashboard metrics retrieved", func(eng *analytics.Engine, idx *inventory.Index) interface{} {
		return map[string]interface{}{
			"stock_value":        inventory.TotalValue(idx.Items()).StringFixed(2),
			"turnover_rate":      eng.TurnoverRate(),
			"low_stock_count":    len(eng.LowStock()),
			"out_of_stock_count": len(eng.OutOfStock()),
			"item_count":         len(idx.Items()),
		}
	})
}
