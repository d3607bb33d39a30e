package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/config"
	"github.com/satheesh067/Flight-Price-Prediction/features"
	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/predictor"
	"github.com/satheesh067/Flight-Price-Prediction/services"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "api.db")},
		JWT:      config.JWTConfig{Secret: "router-secret", ExpiryHours: 1},
		CORS:     config.CORSConfig{AllowedOrigins: "*"},
	}
	db, err := store.Open(cfg.Database)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cache, err := services.NewCacheService(cfg.Redis, logger.Nop())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	model := predictor.Func(func(context.Context, features.Vector) (float64, error) {
		return 5123.456, nil
	})
	return NewRouter(cfg, WireServices(cfg, db, model, cache, logger.Nop()), logger.Nop())
}

func do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func register(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	rec := do(r, http.MethodPost, "/register", "", map[string]string{
		"email": email, "password": "longenough", "confirm_password": "longenough",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.Token
}

var predictBody = map[string]interface{}{
	"source":      "Delhi",
	"destination": "Cochin",
	"airline":     "IndiGo",
	"stops":       1,
	"departure":   "2024-03-01T10:30",
	"arrival":     "2024-03-01T13:20",
}

func TestAuthGate(t *testing.T) {
	r := newTestRouter(t)

	protected := []struct{ method, path string }{
		{http.MethodPost, "/predict"},
		{http.MethodGet, "/history"},
		{http.MethodGet, "/analytics"},
		{http.MethodGet, "/route-analytics?source=Delhi&destination=Cochin"},
		{http.MethodGet, "/settings"},
		{http.MethodPost, "/settings"},
		{http.MethodGet, "/export"},
		{http.MethodGet, "/alerts"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/ws/predictions"},
	}
	for _, p := range protected {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := do(r, p.method, p.path, "", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			var body map[string]interface{}
			decode(t, rec, &body)
			if body["success"] != false {
				t.Errorf("body = %v", body)
			}
		})
	}

	public := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/login", http.StatusBadRequest},
		{http.MethodPost, "/register", http.StatusBadRequest},
	}
	for _, p := range public {
		t.Run("public "+p.method+" "+p.path, func(t *testing.T) {
			if rec := do(r, p.method, p.path, "", nil); rec.Code != p.want {
				t.Fatalf("status = %d, want %d", rec.Code, p.want)
			}
		})
	}
}

func TestHomeListsCategories(t *testing.T) {
	r := newTestRouter(t)
	rec := do(r, http.MethodGet, "/", "", nil)
	var body struct {
		Sources  []string `json:"sources"`
		Airlines []string `json:"airlines"`
	}
	decode(t, rec, &body)
	if len(body.Sources) != len(features.DefaultSources) || len(body.Airlines) != len(features.DefaultAirlines) {
		t.Fatalf("unexpected home payload %s", rec.Body.String())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "Traveller@Fly.in")

	tests := []struct {
		name string
		path string
		body map[string]string
		want int
	}{
		{"duplicate", "/register", map[string]string{"email": "traveller@fly.in", "password": "longenough", "confirm_password": "longenough"}, http.StatusConflict},
		{"mismatch", "/register", map[string]string{"email": "b@fly.in", "password": "longenough", "confirm_password": "different"}, http.StatusBadRequest},
		{"short", "/register", map[string]string{"email": "c@fly.in", "password": "short", "confirm_password": "short"}, http.StatusBadRequest},
		{"login ok", "/login", map[string]string{"email": "TRAVELLER@fly.in", "password": "longenough"}, http.StatusOK},
		{"login bad password", "/login", map[string]string{"email": "traveller@fly.in", "password": "nope-nope"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(r, http.MethodPost, tt.path, "", tt.body); rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestPredictHistoryAndAnalytics(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")
	other := register(t, r, "b@fly.in")

	rec := do(r, http.MethodPost, "/predict", token, predictBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("predict: %d %s", rec.Code, rec.Body.String())
	}
	var pred struct {
		Success  bool    `json:"success"`
		Price    float64 `json:"price"`
		Duration struct {
			Hours   int `json:"hours"`
			Minutes int `json:"minutes"`
		} `json:"duration"`
	}
	decode(t, rec, &pred)
	if !pred.Success || pred.Price != 5123.46 || pred.Duration.Hours != 2 || pred.Duration.Minutes != 50 {
		t.Fatalf("unexpected predict response %s", rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/history", token, nil)
	var history []map[string]interface{}
	decode(t, rec, &history)
	if len(history) != 1 {
		t.Fatalf("expected 1 history item, got %s", rec.Body.String())
	}
	if history[0]["duration"] != "2h 50m" || history[0]["price_display"] != "₹5,123.46" {
		t.Errorf("history item = %v", history[0])
	}

	rec = do(r, http.MethodGet, "/history", other, nil)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("other user sees %s", rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/route-analytics?source=Delhi&destination=Cochin", token, nil)
	var route struct {
		RouteStats struct {
			Count    int      `json:"total_predictions"`
			AvgPrice float64  `json:"avg_price"`
			StdDev   *float64 `json:"price_std"`
		} `json:"route_stats"`
	}
	decode(t, rec, &route)
	if route.RouteStats.Count != 1 || route.RouteStats.AvgPrice != 5123.46 {
		t.Errorf("route analytics = %s", rec.Body.String())
	}
	if route.RouteStats.StdDev != nil {
		t.Errorf("single record should have null stddev, got %v", *route.RouteStats.StdDev)
	}

	if rec := do(r, http.MethodGet, "/route-analytics?source=Delhi", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing destination: status %d", rec.Code)
	}

	rec = do(r, http.MethodGet, "/route-analytics?source=Mumbai&destination=Delhi", token, nil)
	decode(t, rec, &route)
	if rec.Code != http.StatusOK || route.RouteStats.Count != 0 {
		t.Errorf("empty route: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/analytics", token, nil)
	var dash map[string]json.RawMessage
	decode(t, rec, &dash)
	for _, key := range []string{"price_trends", "alerts_summary", "best_deals"} {
		if _, ok := dash[key]; !ok {
			t.Errorf("analytics missing %q: %s", key, rec.Body.String())
		}
	}
}

func TestPredictValidationResponse(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")

	body := map[string]interface{}{}
	for k, v := range predictBody {
		body[k] = v
	}
	body["arrival"] = "2024-03-01T09:00"

	rec := do(r, http.MethodPost, "/predict", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]interface{}
	decode(t, rec, &resp)
	if resp["success"] != false || resp["error"] == "" {
		t.Errorf("body = %v", resp)
	}

	delete(body, "stops")
	body["arrival"] = "2024-03-01T13:20"
	if rec := do(r, http.MethodPost, "/predict", token, body); rec.Code != http.StatusBadRequest {
		t.Errorf("missing stops: status %d", rec.Code)
	}
}

func TestHistoryPagination(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")
	for i := 0; i < 3; i++ {
		if rec := do(r, http.MethodPost, "/predict", token, predictBody); rec.Code != http.StatusOK {
			t.Fatalf("predict: %d", rec.Code)
		}
	}

	rec := do(r, http.MethodGet, "/history?limit=2", token, nil)
	var page []map[string]interface{}
	decode(t, rec, &page)
	cursor := rec.Header().Get("X-Next-Cursor")
	if len(page) != 2 || cursor == "" {
		t.Fatalf("first page: %d items, cursor %q", len(page), cursor)
	}

	rec = do(r, http.MethodGet, "/history?limit=2&before="+urlEscape(cursor), token, nil)
	decode(t, rec, &page)
	if len(page) != 1 || rec.Header().Get("X-Next-Cursor") != "" {
		t.Fatalf("second page: %d items, cursor %q", len(page), rec.Header().Get("X-Next-Cursor"))
	}

	seen := map[float64]bool{}
	path := "/history?limit=1"
	for i := 0; i < 5; i++ {
		rec := do(r, http.MethodGet, path, token, nil)
		var items []map[string]interface{}
		decode(t, rec, &items)
		for _, it := range items {
			seen[it["id"].(float64)] = true
		}
		next := rec.Header().Get("X-Next-Cursor")
		if next == "" {
			break
		}
		path = "/history?limit=1&before=" + urlEscape(next)
	}
	if len(seen) != 3 {
		t.Fatalf("walking pages of one saw %d distinct records, want 3", len(seen))
	}

	for _, bad := range []string{"/history?limit=abc", "/history?before=yesterday", "/history?before=2024-03-01T00:00:00Z_x"} {
		if rec := do(r, http.MethodGet, bad, token, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", bad, rec.Code)
		}
	}
}

func urlEscape(s string) string {
	return strings.NewReplacer("+", "%2B", ":", "%3A").Replace(s)
}

func TestSettingsAffectHistoryDisplay(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")

	rec := do(r, http.MethodGet, "/settings", token, nil)
	var settings map[string]interface{}
	decode(t, rec, &settings)
	if settings["currency"] != "INR" || settings["theme"] != "light" {
		t.Fatalf("default settings = %v", settings)
	}

	if rec := do(r, http.MethodPost, "/settings", token, map[string]string{"currency": "GBP"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid currency: status %d", rec.Code)
	}

	rec = do(r, http.MethodPost, "/settings", token, map[string]string{"currency": "USD"})
	var saved struct {
		Success  bool                   `json:"success"`
		Settings map[string]interface{} `json:"settings"`
	}
	decode(t, rec, &saved)
	if !saved.Success || saved.Settings["currency"] != "USD" || saved.Settings["chart_type"] != "line" {
		t.Fatalf("save settings = %s", rec.Body.String())
	}

	do(r, http.MethodPost, "/predict", token, predictBody)
	rec = do(r, http.MethodGet, "/history", token, nil)
	var history []map[string]interface{}
	decode(t, rec, &history)
	if len(history) != 1 || history[0]["price_display"] != "$5,123.46" {
		t.Fatalf("history = %s", rec.Body.String())
	}
}

func TestExport(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")
	do(r, http.MethodPost, "/predict", token, predictBody)

	rec := do(r, http.MethodGet, "/export", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=flight_predictions.csv" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Timestamp,Source,Destination") {
		t.Fatalf("csv = %q", rec.Body.String())
	}
	if !strings.HasSuffix(lines[1], ",Delhi,Cochin,IndiGo,1,2,50,5123.46") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestAlertsLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")
	other := register(t, r, "b@fly.in")

	rec := do(r, http.MethodPost, "/alerts", token, map[string]interface{}{
		"source": "Delhi", "destination": "Cochin", "max_price": 4000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Alert struct {
			ID       uint `json:"id"`
			IsActive bool `json:"is_active"`
		} `json:"alert"`
	}
	decode(t, rec, &created)
	if created.Alert.ID == 0 || !created.Alert.IsActive {
		t.Fatalf("created = %s", rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/analytics", token, nil)
	var dash struct {
		AlertsSummary struct {
			TotalAlerts int `json:"total_alerts"`
		} `json:"alerts_summary"`
	}
	decode(t, rec, &dash)
	if dash.AlertsSummary.TotalAlerts != 1 {
		t.Errorf("alerts summary = %s", rec.Body.String())
	}

	path := "/alerts/" + jsonNumber(created.Alert.ID)
	if rec := do(r, http.MethodPatch, path, other, map[string]interface{}{"is_active": false}); rec.Code != http.StatusNotFound {
		t.Errorf("foreign pause: status %d", rec.Code)
	}
	if rec := do(r, http.MethodPatch, path, token, map[string]interface{}{}); rec.Code != http.StatusBadRequest {
		t.Errorf("pause without is_active: status %d", rec.Code)
	}
	rec = do(r, http.MethodPatch, path, token, map[string]interface{}{"is_active": false})
	decode(t, rec, &created)
	if rec.Code != http.StatusOK || created.Alert.IsActive {
		t.Fatalf("pause: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/analytics", token, nil)
	var paused struct {
		AlertsSummary struct {
			TotalAlerts  int `json:"total_alerts"`
			ActiveAlerts int `json:"active_alerts"`
		} `json:"alerts_summary"`
	}
	decode(t, rec, &paused)
	if paused.AlertsSummary.TotalAlerts != 1 || paused.AlertsSummary.ActiveAlerts != 0 {
		t.Errorf("alerts summary after pause = %s", rec.Body.String())
	}

	if rec := do(r, http.MethodDelete, path, other, nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign delete: status %d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, path, token, nil); rec.Code != http.StatusOK {
		t.Errorf("delete: status %d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, "/alerts/x", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d", rec.Code)
	}
}

func jsonNumber(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestLiveWebSocketDisabledWithoutRedis(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@fly.in")
	if rec := do(r, http.MethodGet, "/ws/predictions?token="+token, "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
