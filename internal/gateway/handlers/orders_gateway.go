package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/orders"
)

type OrdersHTTPHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrdersHTTPHandler(db *gorm.DB, logger *zap.Logger) *OrdersHTTPHandler {
	return &OrdersHTTPHandler{
		db:     db,
		logger: logger,
	}
}

type orderResponse struct {
	ID               int64  `json:"id"`
	OrderNumber      string `json:"order_number"`
	Type             string `json:"type"`
	Date             string `json:"date"`
	DueDate          string `json:"due_date"`
	Status           string `json:"status"`
	CustomerSupplier string `json:"customer_supplier"`
	TotalAmount      string `json:"total_amount"`
	ItemCount        int32  `json:"item_count"`
}

func toOrderResponse(o models.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Type:             o.Type,
		Date:             o.Date,
		DueDate:          o.DueDate,
		Status:           o.Status,
		CustomerSupplier: o.CustomerSupplier,
		TotalAmount:      o.TotalAmount,
		ItemCount:        o.ItemCount,
	}
}

// ListOrders returns the organization's orders, optionally narrowed to a
// date window and a type, newest first by default. Orders with unparseable
// stored dates fall outside any window and sort last.
func (h *OrdersHTTPHandler) ListOrders(c *gin.Context) {
	var all []models.Order
	if err := h.db.Where("organization_id = ?", orgID(c)).Order("id").Find(&all).Error; err != nil {
		h.logger.Error("orders load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	ledger := orders.NewLedger(all)

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from := time.Time{}
		to := time.Now()
		if fromStr != "" {
			parsed, err := time.Parse(dateLayout, fromStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, errorResponse("invalid from date, expected YYYY-MM-DD"))
				return
			}
			from = parsed
		}
		if toStr != "" {
			parsed, err := time.Parse(dateLayout, toStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, errorResponse("invalid to date, expected YYYY-MM-DD"))
				return
			}
			to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		ledger = orders.NewLedger(ledger.FilterByDateRange(from, to))
	}

	if orderType := c.Query("type"); orderType != "" {
		sales, purchase := ledger.PartitionByType()
		switch orderType {
		case models.OrderTypeSales:
			ledger = orders.NewLedger(sales)
		case models.OrderTypePurchase:
			ledger = orders.NewLedger(purchase)
		default:
			c.JSON(http.StatusBadRequest, errorResponse("type must be Sales or Purchase"))
			return
		}
	}

	var sorted []models.Order
	if c.Query("sort") == "asc" {
		sorted = ledger.SortByDateAscending()
	} else {
		sorted = ledger.SortByDateDescending()
	}

	rows := make([]orderResponse, 0, len(sorted))
	for _, o := range sorted {
		rows = append(rows, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, successWithMetaResponse("orders retrieved", rows, map[string]interface{}{
		"count": len(rows),
	}))
}
