// Package analytics computes descriptive statistics over a user's prediction
// history and price alerts. Every function is pure and leaves its input
// untouched; records may arrive in any order.
package analytics

import (
	"fmt"
	"sort"

	"github.com/satheesh067/Flight-Price-Prediction/models"
)

const dateLayout = "2006-01-02"

type DailyPrice struct {
	Date     string `json:"date"`
	AvgPrice Stat   `json:"avg_price"`
	MinPrice Stat   `json:"min_price"`
	MaxPrice Stat   `json:"max_price"`
}

type RouteStats struct {
	AvgPrice       Stat           `json:"avg_price"`
	MinPrice       Stat           `json:"min_price"`
	MaxPrice       Stat           `json:"max_price"`
	PriceStdDev    Stat           `json:"price_std"`
	Count          int            `json:"total_predictions"`
	AirlineCounts  map[string]int `json:"airlines"`
	HourlyAvgPrice map[int]Stat   `json:"popular_times"`
}

type BookingTime struct {
	BestHour         int    `json:"best_hour"`
	WorstHour        int    `json:"worst_hour"`
	BestTime         string `json:"best_time"`
	WorstTime        string `json:"worst_time"`
	BestPrice        Stat   `json:"best_price"`
	WorstPrice       Stat   `json:"worst_price"`
	SavingsPotential Stat   `json:"savings_potential"`
	Samples          int    `json:"samples"`
}

type AirlineStats struct {
	Airline     string `json:"airline"`
	AvgPrice    Stat   `json:"avg_price"`
	MinPrice    Stat   `json:"min_price"`
	MaxPrice    Stat   `json:"max_price"`
	PriceStdDev Stat   `json:"price_std"`
	Count       int    `json:"flight_count"`
}

type Deal struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	AvgPrice    Stat    `json:"avg_price"`
	DealPrice   float64 `json:"deal_price"`
	Savings     Stat    `json:"savings"`
	Airline     string  `json:"airline"`
}

type RouteCount struct {
	models.Route
	Count int `json:"count"`
}

type AlertsSummary struct {
	TotalAlerts       int          `json:"total_alerts"`
	ActiveAlerts      int          `json:"active_alerts"`
	RoutesWatched     []RouteCount `json:"routes_watched"`
	AvgTargetPrice    Stat         `json:"avg_target_price"`
	MostWatchedRoutes []RouteCount `json:"most_watched_routes"`
}

// PriceTrends aggregates prices per UTC calendar day, oldest day first.
func PriceTrends(records []models.PredictionRecord) []DailyPrice {
	byDate := make(map[string][]float64)
	for _, r := range records {
		day := r.Timestamp.UTC().Format(dateLayout)
		byDate[day] = append(byDate[day], r.PredictedPrice)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DailyPrice, 0, len(dates))
	for _, d := range dates {
		s := summarize(byDate[d])
		out = append(out, DailyPrice{Date: d, AvgPrice: s.mean, MinPrice: s.min, MaxPrice: s.max})
	}
	return out
}

// RouteStatsOf summarises one route's records. With no records Count is 0 and
// every price statistic is NaN.
func RouteStatsOf(records []models.PredictionRecord) RouteStats {
	prices := make([]float64, 0, len(records))
	airlines := make(map[string]int)
	byHour := make(map[int][]float64)
	for _, r := range records {
		prices = append(prices, r.PredictedPrice)
		airlines[r.Airline]++
		h := r.Timestamp.UTC().Hour()
		byHour[h] = append(byHour[h], r.PredictedPrice)
	}

	hourly := make(map[int]Stat, len(byHour))
	for h, ps := range byHour {
		hourly[h] = summarize(ps).mean
	}

	s := summarize(prices)
	return RouteStats{
		AvgPrice:       s.mean,
		MinPrice:       s.min,
		MaxPrice:       s.max,
		PriceStdDev:    s.std,
		Count:          s.count,
		AirlineCounts:  airlines,
		HourlyAvgPrice: hourly,
	}
}

// BestBookingTime finds the hours of day with the lowest and highest average
// price. Ties go to the earlier hour.
func BestBookingTime(records []models.PredictionRecord) BookingTime {
	out := BookingTime{
		BestPrice:        NaN(),
		WorstPrice:       NaN(),
		SavingsPotential: NaN(),
		Samples:          len(records),
	}
	if len(records) == 0 {
		return out
	}

	var byHour [24][]float64
	for _, r := range records {
		h := r.Timestamp.UTC().Hour()
		byHour[h] = append(byHour[h], r.PredictedPrice)
	}

	found := false
	for h := 0; h < 24; h++ {
		if len(byHour[h]) == 0 {
			continue
		}
		avg := summarize(byHour[h]).mean
		if !found {
			out.BestHour, out.BestPrice = h, avg
			out.WorstHour, out.WorstPrice = h, avg
			found = true
			continue
		}
		if avg < out.BestPrice {
			out.BestHour, out.BestPrice = h, avg
		}
		if avg > out.WorstPrice {
			out.WorstHour, out.WorstPrice = h, avg
		}
	}

	out.BestTime = fmt.Sprintf("%02d:00", out.BestHour)
	out.WorstTime = fmt.Sprintf("%02d:00", out.WorstHour)
	out.SavingsPotential = out.WorstPrice - out.BestPrice
	return out
}

// AirlineComparison returns one row per airline present, ordered by name.
func AirlineComparison(records []models.PredictionRecord) []AirlineStats {
	byAirline := make(map[string][]float64)
	for _, r := range records {
		byAirline[r.Airline] = append(byAirline[r.Airline], r.PredictedPrice)
	}

	names := make([]string, 0, len(byAirline))
	for a := range byAirline {
		names = append(names, a)
	}
	sort.Strings(names)

	out := make([]AirlineStats, 0, len(names))
	for _, a := range names {
		s := summarize(byAirline[a])
		out = append(out, AirlineStats{
			Airline:     a,
			AvgPrice:    s.mean,
			MinPrice:    s.min,
			MaxPrice:    s.max,
			PriceStdDev: s.std,
			Count:       s.count,
		})
	}
	return out
}

// DealDetection flags, per route, records priced below mean - stddev and
// reports the cheapest of them. Routes with fewer than two records have no
// deviation and therefore no deals. Output is ordered by savings, largest
// first.
func DealDetection(records []models.PredictionRecord) []Deal {
	byRoute := make(map[models.Route][]models.PredictionRecord)
	for _, r := range records {
		byRoute[r.RouteKey()] = append(byRoute[r.RouteKey()], r)
	}

	routes := make([]models.Route, 0, len(byRoute))
	for rt := range byRoute {
		routes = append(routes, rt)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Less(routes[j]) })

	deals := make([]Deal, 0)
	for _, rt := range routes {
		group := byRoute[rt]
		prices := make([]float64, len(group))
		for i, r := range group {
			prices[i] = r.PredictedPrice
		}
		s := summarize(prices)
		if !s.std.Valid() {
			continue
		}
		threshold := float64(s.mean - s.std)

		cheapest := -1
		for i, r := range group {
			if r.PredictedPrice >= threshold {
				continue
			}
			if cheapest < 0 || r.PredictedPrice < group[cheapest].PredictedPrice {
				cheapest = i
			}
		}
		if cheapest < 0 {
			continue
		}

		best := group[cheapest]
		deals = append(deals, Deal{
			Source:      rt.Source,
			Destination: rt.Destination,
			AvgPrice:    s.mean,
			DealPrice:   best.PredictedPrice,
			Savings:     s.mean - Stat(best.PredictedPrice),
			Airline:     best.Airline,
		})
	}

	sort.SliceStable(deals, func(i, j int) bool { return deals[i].Savings > deals[j].Savings })
	return deals
}

const mostWatchedLimit = 5

// AlertsSummaryOf counts alerts overall and per route. MostWatchedRoutes holds
// at most five routes by descending count, ties in route order.
func AlertsSummaryOf(alerts []models.PriceAlert) AlertsSummary {
	out := AlertsSummary{
		TotalAlerts:       len(alerts),
		RoutesWatched:     make([]RouteCount, 0),
		AvgTargetPrice:    NaN(),
		MostWatchedRoutes: make([]RouteCount, 0),
	}

	counts := make(map[models.Route]int)
	targets := make([]float64, 0, len(alerts))
	for _, a := range alerts {
		if a.IsActive {
			out.ActiveAlerts++
		}
		counts[a.RouteKey()]++
		targets = append(targets, a.MaxPrice)
	}
	out.AvgTargetPrice = summarize(targets).mean

	for rt, n := range counts {
		out.RoutesWatched = append(out.RoutesWatched, RouteCount{Route: rt, Count: n})
	}
	sort.Slice(out.RoutesWatched, func(i, j int) bool {
		return out.RoutesWatched[i].Route.Less(out.RoutesWatched[j].Route)
	})

	top := append([]RouteCount(nil), out.RoutesWatched...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > mostWatchedLimit {
		top = top[:mostWatchedLimit]
	}
	out.MostWatchedRoutes = append(out.MostWatchedRoutes, top...)
	return out
}
