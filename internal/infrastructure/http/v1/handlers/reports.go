package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"almox/internal/core/apperror"
	"almox/internal/domain/reports"
	"almox/internal/infrastructure/excel"
)

// ReportHandler handles reporting requests.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: base, service: service}
}

func (h *ReportHandler) parsePeriod(c *gin.Context) (reports.Period, bool) {
	var period reports.Period

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected RFC3339").
				WithDetail("field", "from"))
			return period, false
		}
		period.From = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected RFC3339").
				WithDetail("field", "to"))
			return period, false
		}
		period.To = parsed
	}

	return period, true
}

// Turnover handles GET /reports/turnover.
func (h *ReportHandler) Turnover(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	rows, err := h.service.Turnover(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]gin.H, len(rows))
	for i, row := range rows {
		items[i] = gin.H{
			"productId":    row.ProductID,
			"productCode":  row.ProductCode,
			"productName":  row.ProductName,
			"entryQty":     row.EntryQty,
			"exitQty":      row.ExitQty,
			"net":          row.Net(),
			"currentStock": row.CurrentStock,
		}
	}

	h.OK(c, gin.H{"items": items})
}

// MovementsXLSX handles GET /reports/movements.xlsx.
func (h *ReportHandler) MovementsXLSX(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	rows, err := h.service.MovementRows(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	f, err := excel.MovementReport(rows)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("movements-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		h.Error(c, apperror.NewInternal(err))
	}
}

// RegisterRoutes registers report routes.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/turnover", h.Turnover)
	rg.GET("/movements.xlsx", h.MovementsXLSX)
}
