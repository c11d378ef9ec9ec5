package api

import (
	"net/http"

	"github.com/SmoothBot/exchange-volume/internal/domain/dto"
	"github.com/SmoothBot/exchange-volume/internal/domain/models"
	"github.com/SmoothBot/exchange-volume/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler provides HTTP handlers for the dominance and volume endpoints.
//
// Responsibilities:
//   - Interact with the service layer for aggregation
//   - Translate aggregation results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc    service.DominanceService
	prices service.PriceTable // nil when no price table is configured
}

// NewHandler constructs a Handler. prices may be nil, which disables the
// USD volume endpoint.
func NewHandler(svc service.DominanceService, prices service.PriceTable) *Handler {
	return &Handler{svc: svc, prices: prices}
}

// GetDominance handles GET /api/v1/dominance requests.
//
// GetDominance godoc
// @Summary      Get CEX/DEX dominance series
// @Description  Returns the daily centralized-vs-decentralized market-share series with summary statistics
// @Tags         dominance
// @Produce      json
// @Success      200  {object}  dto.DominanceResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse      "No data ingested yet"
// @Failure      500  {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/dominance [get]
func (h *Handler) GetDominance(c *gin.Context) {
	report, err := h.svc.DominanceReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to compute dominance", err))
		return
	}
	if len(report.Series) == 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no volume data ingested yet", nil))
		return
	}

	c.JSON(http.StatusOK, toDominanceResponse(report))
}

// GetVolumeUSD handles GET /api/v1/volume requests.
//
// GetVolumeUSD godoc
// @Summary      Get daily USD volume series
// @Description  Returns total daily traded volume converted to USD via the configured price table
// @Tags         volume
// @Produce      json
// @Success      200  {object}  dto.VolumeResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse   "No data ingested yet"
// @Failure      500  {object}  dto.ErrorResponse   "Internal Error"
// @Failure      503  {object}  dto.ErrorResponse   "Price table not configured"
// @Router       /api/v1/volume [get]
func (h *Handler) GetVolumeUSD(c *gin.Context) {
	if h.prices == nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("price table not configured", nil))
		return
	}

	series, err := h.svc.DailyVolumeUSD(c.Request.Context(), h.prices)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to compute USD volume", err))
		return
	}
	if len(series) == 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no volume data ingested yet", nil))
		return
	}

	resp := dto.VolumeResponse{Series: make([]dto.VolumePointResponse, 0, len(series))}
	for _, p := range series {
		resp.Series = append(resp.Series, dto.VolumePointResponse{Date: p.Date, VolumeUSD: p.VolumeUSD})
	}
	c.JSON(http.StatusOK, resp)
}

func toDominanceResponse(report *models.DominanceReport) dto.DominanceResponse {
	resp := dto.DominanceResponse{
		Series: make([]dto.DominancePointResponse, 0, len(report.Series)),
		Stats: dto.DominanceStatsResponse{
			Current:    report.Stats.Current,
			Average:    report.Stats.Average,
			Max:        report.Stats.Max,
			Min:        report.Stats.Min,
			Volatility: report.Stats.Volatility,
		},
	}
	for _, p := range report.Series {
		resp.Series = append(resp.Series, dto.DominancePointResponse{
			Date:          p.Date,
			Centralized:   p.Centralized,
			Decentralized: p.Decentralized,
		})
	}
	return resp
}
