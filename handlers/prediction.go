package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/features"
	"github.com/satheesh067/Flight-Price-Prediction/models"
	"github.com/satheesh067/Flight-Price-Prediction/services"
)

const exportFilename = "flight_predictions.csv"

type PredictionHandler struct {
	predictions *services.PredictionService
	settings    *services.SettingsService
}

func NewPredictionHandler(predictions *services.PredictionService, settings *services.SettingsService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions, settings: settings}
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.predictions.Predict(c.Request.Context(), &uid, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"id":       res.ID,
		"price":    res.Price,
		"duration": res.Duration,
	})
}

type HistoryItem struct {
	ID           uint      `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	Airline      string    `json:"airline"`
	Stops        int       `json:"stops"`
	Duration     string    `json:"duration"`
	Price        float64   `json:"price"`
	PriceDisplay string    `json:"price_display"`
}

func newHistoryItem(r models.PredictionRecord, currency string) HistoryItem {
	return HistoryItem{
		ID:           r.ID,
		Timestamp:    r.Timestamp.UTC(),
		Source:       r.Source,
		Destination:  r.Destination,
		Airline:      r.Airline,
		Stops:        r.Stops,
		Duration:     features.Duration{Hours: r.DurationHours, Minutes: r.DurationMinutes}.String(),
		Price:        r.PredictedPrice,
		PriceDisplay: models.FormatPrice(r.PredictedPrice, currency),
	}
}

// History returns the caller's predictions, newest first. With ?limit= the
// list is paged and X-Next-Cursor carries the ?before= value of the next page.
func (h *PredictionHandler) History(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := ParsePagination(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	query := p
	if p.Limit > 0 {
		query.Limit = p.Limit + 1
	}
	rows, err := h.predictions.History(c.Request.Context(), uid, query)
	if err != nil {
		respondError(c, err)
		return
	}

	if p.Limit > 0 && len(rows) > p.Limit {
		rows = rows[:p.Limit]
		last := rows[len(rows)-1]
		c.Header(NextCursorHeader, FormatCursor(last.Timestamp, last.ID))
	}

	currency := h.settings.Currency(c.Request.Context(), uid)
	items := make([]HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, newHistoryItem(r, currency))
	}
	c.JSON(http.StatusOK, items)
}

func (h *PredictionHandler) Export(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.predictions.Export(c.Request.Context(), uid, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+exportFilename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *PredictionHandler) Analytics(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.predictions.Analytics(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *PredictionHandler) RouteAnalytics(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.predictions.RouteAnalytics(c.Request.Context(), uid, c.Query("source"), c.Query("destination"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
