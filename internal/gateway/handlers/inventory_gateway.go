package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/inventory"
	"wareflow-system/internal/location"
)

type InventoryHTTPHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewInventoryHTTPHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

type inventoryItemResponse struct {
	ID                 int64  `json:"id"`
	SKU                string `json:"sku"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	Quantity           int32  `json:"quantity"`
	PickingBinQuantity int32  `json:"picking_bin_quantity"`
	OverstockQuantity  int32  `json:"overstock_quantity"`
	ReorderLevel       int32  `json:"reorder_level"`
	UnitCost           string `json:"unit_cost"`
	RetailPrice        string `json:"retail_price"`
	Location           string `json:"location"`
	PickingBinLocation string `json:"picking_bin_location"`
	Status             string `json:"status"`
	LastUpdated        string `json:"last_updated"`
}

func toInventoryItemResponse(it models.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:                 it.ID,
		SKU:                it.SKU,
		Name:               it.Name,
		Category:           it.Category,
		Quantity:           it.Quantity(),
		PickingBinQuantity: it.PickingBinQuantity,
		OverstockQuantity:  it.OverstockQuantity,
		ReorderLevel:       it.ReorderLevel,
		UnitCost:           it.UnitCost,
		RetailPrice:        it.RetailPrice,
		Location:           it.Location,
		PickingBinLocation: it.PickingBinLocation,
		Status:             it.Status(),
		LastUpdated:        it.LastUpdated.Format(time.RFC3339),
	}
}

func (h *InventoryHTTPHandler) loadOrgItems(c *gin.Context) ([]models.InventoryItem, bool) {
	var items []models.InventoryItem
	if err := h.db.Where("organization_id = ?", orgID(c)).Order("id").Find(&items).Error; err != nil {
		h.logger.Error("inventory load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return nil, false
	}
	return items, true
}

// ListInventory returns the organization's items, optionally narrowed by a
// case-insensitive search term or an exact canonical location. An unknown
// location simply yields an empty list.
func (h *InventoryHTTPHandler) ListInventory(c *gin.Context) {
	items, ok := h.loadOrgItems(c)
	if !ok {
		return
	}

	idx := inventory.NewIndex(items)
	filtered := idx.Items()
	if loc := c.Query("location"); loc != "" {
		filtered = idx.FindByLocation(loc)
	} else if term := c.Query("search"); term != "" {
		filtered = idx.Search(term)
	}

	rows := make([]inventoryItemResponse, 0, len(filtered))
	for _, it := range filtered {
		rows = append(rows, toInventoryItemResponse(it))
	}

	c.JSON(http.StatusOK, successWithMetaResponse("inventory retrieved", rows, map[string]interface{}{
		"count":       len(rows),
		"total_value": inventory.TotalValue(filtered).StringFixed(2),
	}))
}

// LocationAxes returns the distinct values per location axis across the
// organization's stored locations, for the location picker dropdowns.
func (h *InventoryHTTPHandler) LocationAxes(c *gin.Context) {
	items, ok := h.loadOrgItems(c)
	if !ok {
		return
	}

	locs := inventory.NewIndex(items).Locations()
	c.JSON(http.StatusOK, successResponse("location axes retrieved", map[string][]string{
		"areas":     location.UniqueValuesForAxis(locs, location.AxisArea),
		"rows":      location.UniqueValuesForAxis(locs, location.AxisRow),
		"bays":      location.UniqueValuesForAxis(locs, location.AxisBay),
		"levels":    location.UniqueValuesForAxis(locs, location.AxisLevel),
		"positions": location.UniqueValuesForAxis(locs, location.AxisPos),
	}))
}

type AdjustStockRequest struct {
	Amount int32   `json:"amount" binding:"required"`
	Target string  `json:"target" binding:"omitempty,oneof=picking overstock"`
	Notes  *string `json:"notes,omitempty"`
}

// AdjustStock applies a signed stock delta to one item and appends a
// StockMovement audit row. Adjustments that would drive any quantity
// negative are rejected with no state mutated.
func (h *InventoryHTTPHandler) AdjustStock(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid item id"))
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("amount is required and must be a non-zero number"))
		return
	}

	var item models.InventoryItem
	err = h.db.Where("id = ? AND organization_id = ?", itemID, orgID(c)).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, errorResponse("inventory item not found"))
		return
	}
	if err != nil {
		h.logger.Error("item lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	target := req.Target
	if target == "" {
		target = "overstock"
	}
	newPicking := item.PickingBinQuantity
	newOverstock := item.OverstockQuantity
	if target == "picking" {
		newPicking += req.Amount
	} else {
		newOverstock += req.Amount
	}
	if newPicking < 0 || newOverstock < 0 {
		c.JSON(http.StatusBadRequest, errorResponse("adjustment would drive stock below zero"))
		return
	}

	now := time.Now()
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&item).Updates(map[string]interface{}{
			"picking_bin_quantity": newPicking,
			"overstock_quantity":   newOverstock,
			"last_updated":         now,
		}).Error; err != nil {
			return err
		}
		movement := models.StockMovement{
			OrganizationID: item.OrganizationID,
			ItemID:         item.ID,
			Amount:         req.Amount,
			UnitCost:       item.UnitCost,
			ReferenceID:    uuid.NewString(),
			Notes:          req.Notes,
			CreatedBy:      callerID(c),
			CreatedAt:      now,
		}
		return tx.Create(&movement).Error
	})
	if txErr != nil {
		h.logger.Error("stock adjustment failed", zap.Error(txErr))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	InvalidateDashboardCaches(c.Request.Context(), h.redis, item.OrganizationID)

	item.PickingBinQuantity = newPicking
	item.OverstockQuantity = newOverstock
	item.LastUpdated = now
	c.JSON(http.StatusOK, successResponse("stock adjusted", toInventoryItemResponse(item)))
}
