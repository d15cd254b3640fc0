package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/middleware"
	"foodtruck-pos/internal/sales"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// --- GET: /api/sales?granularity=day&date=2024-05-01 ---
// Trend series plus menu breakdown. date defaults to today.
func (h *Handler) GetSalesReport(c *gin.Context) {
	report, err := h.report(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /api/sales/details?period=2024-05 ---
// The orders behind one bar of the chart, newest first.
func (h *Handler) GetSalesDetails(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		h.badInput(c, "period is required")
		return
	}

	details, err := h.Sales.Details(c.Request.Context(), middleware.TruckID(c), period)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// --- GET: /api/sales/export ---
// Same report as GetSalesReport, as an Excel download.
func (h *Handler) ExportSales(c *gin.Context) {
	// 1. Build the report
	report, err := h.report(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. Render into memory so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := sales.WriteXLSX(&buf, report); err != nil {
		h.respondError(c, apperr.Backend(err, "Failed to build the spreadsheet"))
		return
	}

	// 3. Send it as an attachment
	filename := fmt.Sprintf("sales-%s-%s.xlsx", report.Granularity, report.Anchor)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) report(c *gin.Context) (*sales.Report, error) {
	g, err := sales.ParseGranularity(c.DefaultQuery("granularity", string(sales.Day)))
	if err != nil {
		return nil, err
	}
	date := c.Query("date")
	if date == "" {
		date = h.Business.Today()
	}
	return h.Sales.Report(c.Request.Context(), middleware.TruckID(c), g, date)
}
