package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/satheesh067/Flight-Price-Prediction/analytics"
	"github.com/satheesh067/Flight-Price-Prediction/apierr"
	"github.com/satheesh067/Flight-Price-Prediction/features"
	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/models"
	"github.com/satheesh067/Flight-Price-Prediction/predictor"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

var ExportHeader = []string{
	"Timestamp", "Source", "Destination", "Airline", "Stops",
	"Duration (hours)", "Duration (minutes)", "Predicted Price",
}

type PredictRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Airline     string `json:"airline" binding:"required"`
	Stops       *int   `json:"stops" binding:"required"`
	Departure   string `json:"departure" binding:"required"`
	Arrival     string `json:"arrival" binding:"required"`
}

type PredictResult struct {
	ID       uint              `json:"id"`
	Price    float64           `json:"price"`
	Duration features.Duration `json:"duration"`
}

type AnalyticsReport struct {
	PriceTrends   []analytics.DailyPrice  `json:"price_trends"`
	AlertsSummary analytics.AlertsSummary `json:"alerts_summary"`
	BestDeals     []analytics.Deal        `json:"best_deals"`
}

type RouteReport struct {
	RouteStats        analytics.RouteStats     `json:"route_stats"`
	BestBookingTime   analytics.BookingTime    `json:"best_booking_time"`
	AirlineComparison []analytics.AirlineStats `json:"airline_comparison"`
}

// PredictionService runs one prediction end to end and serves the read-side
// views over the stored history.
type PredictionService struct {
	encoder *features.Encoder
	model   predictor.Predictor
	history store.HistoryStore
	alerts  store.AlertStore
	cache   *CacheService
	log     *logger.Logger
}

func NewPredictionService(
	encoder *features.Encoder,
	model predictor.Predictor,
	history store.HistoryStore,
	alerts store.AlertStore,
	cache *CacheService,
	baseLog *logger.Logger,
) *PredictionService {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &PredictionService{
		encoder: encoder,
		model:   model,
		history: history,
		alerts:  alerts,
		cache:   cache,
		log:     baseLog.With("service", "PredictionService"),
	}
}

func (s *PredictionService) Encoder() *features.Encoder { return s.encoder }

// Predict validates req, prices it and appends the result to the caller's
// history before returning. userID may be nil for anonymous use from the CLI.
func (s *PredictionService) Predict(ctx context.Context, userID *uint, req PredictRequest) (*PredictResult, error) {
	freq, err := s.parse(req)
	if err != nil {
		predictionsFailed.WithLabelValues("validation").Inc()
		return nil, apierr.Validation(err)
	}

	vec, dur, err := s.encoder.EncodeJourney(freq)
	if err != nil {
		predictionsFailed.WithLabelValues("validation").Inc()
		return nil, apierr.Validation(err)
	}

	raw, err := s.model.Predict(ctx, vec)
	if err == nil {
		err = predictor.Finite(raw)
	}
	if err != nil {
		predictionsFailed.WithLabelValues("model").Inc()
		s.log.Error("model prediction failed", "error", err)
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, fmt.Errorf("prediction failed: %w", err))
	}
	price := predictor.Round2(raw)
	predictionsGenerated.Inc()

	rec := &models.PredictionRecord{
		Source:          freq.Source,
		Destination:     freq.Destination,
		Airline:         freq.Airline,
		Stops:           freq.Stops,
		DurationHours:   dur.Hours,
		DurationMinutes: dur.Minutes,
		PredictedPrice:  price,
		UserID:          userID,
	}
	id, err := s.history.Append(ctx, rec)
	if err != nil {
		predictionsFailed.WithLabelValues("store").Inc()
		return nil, apierr.Persistence(err)
	}
	predictionsStored.Inc()

	if userID != nil {
		if err := s.cache.Bump(ctx, *userID); err != nil {
			s.log.Warn("analytics cache bump failed", "user_id", *userID, "error", err)
		}
		if err := s.cache.Publish(ctx, PredictionChannel(*userID), rec); err != nil {
			s.log.Warn("publish prediction failed", "user_id", *userID, "error", err)
		} else if s.cache.Available() {
			predictionsPublished.Inc()
		}
	}

	s.log.Debug("prediction stored", "id", id, "route", rec.RouteKey().String(), "price", price)
	return &PredictResult{ID: id, Price: price, Duration: dur}, nil
}

func (s *PredictionService) parse(req PredictRequest) (features.Request, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"source", req.Source},
		{"destination", req.Destination},
		{"airline", req.Airline},
		{"departure", req.Departure},
		{"arrival", req.Arrival},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if req.Stops == nil {
		missing = append(missing, "stops")
	}
	if len(missing) > 0 {
		return features.Request{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	dep, err := features.ParseTimestamp(req.Departure)
	if err != nil {
		return features.Request{}, fmt.Errorf("departure: %w", err)
	}
	arr, err := features.ParseTimestamp(req.Arrival)
	if err != nil {
		return features.Request{}, fmt.Errorf("arrival: %w", err)
	}
	return features.Request{
		Source:      strings.TrimSpace(req.Source),
		Destination: strings.TrimSpace(req.Destination),
		Airline:     strings.TrimSpace(req.Airline),
		Stops:       *req.Stops,
		Departure:   dep,
		Arrival:     arr,
	}, nil
}

func (s *PredictionService) History(ctx context.Context, userID uint, page store.Page) ([]models.PredictionRecord, error) {
	rows, err := s.history.QueryPage(ctx, userID, page)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return rows, nil
}

// Export writes the caller's full history as CSV, newest first.
func (s *PredictionService) Export(ctx context.Context, userID uint, w io.Writer) error {
	rows, err := s.history.QueryByUser(ctx, userID)
	if err != nil {
		return apierr.Persistence(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Source,
			r.Destination,
			r.Airline,
			strconv.Itoa(r.Stops),
			strconv.Itoa(r.DurationHours),
			strconv.Itoa(r.DurationMinutes),
			strconv.FormatFloat(r.PredictedPrice, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Analytics builds the dashboard view. Results are cached per history
// version, so a prediction stored before this call is always reflected.
func (s *PredictionService) Analytics(ctx context.Context, userID uint) (*AnalyticsReport, error) {
	key, cacheable := s.cacheKey(ctx, userID, func(v int64) string { return AnalyticsKey(userID, v) })
	if cacheable {
		var cached AnalyticsReport
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	var (
		records []models.PredictionRecord
		alerts  []models.PriceAlert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.history.QueryByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = s.alerts.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.Persistence(err)
	}

	report := &AnalyticsReport{
		PriceTrends:   analytics.PriceTrends(records),
		AlertsSummary: analytics.AlertsSummaryOf(alerts),
		BestDeals:     analytics.DealDetection(records),
	}
	if cacheable {
		s.remember(ctx, key, report)
	}
	return report, nil
}

// RouteAnalytics reports on one route. A route with no history yields a
// zeroed report, not an error.
func (s *PredictionService) RouteAnalytics(ctx context.Context, userID uint, source, destination string) (*RouteReport, error) {
	source, destination = strings.TrimSpace(source), strings.TrimSpace(destination)
	if source == "" || destination == "" {
		return nil, apierr.Validation(errors.New("source and destination are required"))
	}

	key, cacheable := s.cacheKey(ctx, userID, func(v int64) string {
		return RouteAnalyticsKey(userID, v, source, destination)
	})
	if cacheable {
		var cached RouteReport
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	records, err := s.history.QueryByRoute(ctx, userID, source, destination)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	report := &RouteReport{
		RouteStats:        analytics.RouteStatsOf(records),
		BestBookingTime:   analytics.BestBookingTime(records),
		AirlineComparison: analytics.AirlineComparison(records),
	}
	if cacheable {
		s.remember(ctx, key, report)
	}
	return report, nil
}

func (s *PredictionService) cacheKey(ctx context.Context, userID uint, key func(int64) string) (string, bool) {
	if !s.cache.Available() {
		return "", false
	}
	v, err := s.cache.Version(ctx, userID)
	if err != nil {
		s.log.Warn("analytics cache version lookup failed", "user_id", userID, "error", err)
		return "", false
	}
	return key(v), true
}

func (s *PredictionService) remember(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, analyticsTTL); err != nil {
		s.log.Warn("analytics cache write failed", "key", key, "error", err)
	}
}
