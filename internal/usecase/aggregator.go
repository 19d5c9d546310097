package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/internal/domain/repository"
	"aerofare-service/pkg/logger"
)

// A day-over-day drop larger than this fraction of the prior minimum
// raises a price alert. Fixed policy value, kept as-is.
const priceDropThreshold = 0.05

// Aggregator computes per (airline, travel date) daily statistics for a
// completed run, compares them against the most recent prior
// observation, and raises price-drop notifications.
type Aggregator struct {
	quoteRepo   repository.QuoteRepository
	summaryRepo repository.SummaryRepository
	notifRepo   repository.NotificationRepository
	logger      logger.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(
	quoteRepo repository.QuoteRepository,
	summaryRepo repository.SummaryRepository,
	notifRepo repository.NotificationRepository,
	log logger.Logger,
) *Aggregator {
	return &Aggregator{
		quoteRepo:   quoteRepo,
		summaryRepo: summaryRepo,
		notifRepo:   notifRepo,
		logger:      log,
	}
}

// ComputeDailySummaries loads the run's successful quotes and persists
// one DailySummary per (airline, travel date) group.
func (a *Aggregator) ComputeDailySummaries(ctx context.Context, runID, route string, scrapeDate time.Time) error {
	quotes, err := a.quoteRepo.FindSuccessfulByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("load run quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil
	}

	groups := make(map[string][]entity.FlightQuote)
	byDate := make(map[string][]entity.FlightQuote)
	for _, q := range quotes {
		dateKey := q.TravelDate.Format(dateLayout)
		groupKey := q.Airline + "|" + dateKey
		groups[groupKey] = append(groups[groupKey], q)
		byDate[dateKey] = append(byDate[dateKey], q)
	}

	// Cheapest airline per travel date across the whole run
	cheapestByDate := make(map[string]string, len(byDate))
	for dateKey, dateQuotes := range byDate {
		cheapest := dateQuotes[0]
		for _, q := range dateQuotes[1:] {
			if q.Fare < cheapest.Fare {
				cheapest = q
			}
		}
		cheapestByDate[dateKey] = cheapest.Airline
	}

	for _, group := range groups {
		airline := group[0].Airline
		travelDate := group[0].TravelDate

		prices := make([]float64, 0, len(group))
		for _, q := range group {
			prices = append(prices, q.Fare)
		}

		minPrice, maxPrice := prices[0], prices[0]
		var sum float64
		for _, p := range prices {
			if p < minPrice {
				minPrice = p
			}
			if p > maxPrice {
				maxPrice = p
			}
			sum += p
		}
		avgPrice := round2(sum / float64(len(prices)))

		prior, err := a.summaryRepo.FindPrior(ctx, route, airline, travelDate, scrapeDate)
		if err != nil {
			return fmt.Errorf("find prior summary: %w", err)
		}

		var delta *float64
		if prior != nil && prior.MinPrice > 0 {
			d := minPrice - prior.MinPrice
			delta = &d
		}

		summary := entity.DailySummary{
			Route:           route,
			Airline:         airline,
			TravelDate:      travelDate,
			ScrapeDate:      scrapeDate,
			MinPrice:        minPrice,
			AvgPrice:        avgPrice,
			MaxPrice:        maxPrice,
			PriceChangeDOD:  delta,
			Volatility:      round2(sampleStdDev(prices)),
			CheapestAirline: cheapestByDate[travelDate.Format(dateLayout)],
			CheapestRoute:   route,
		}
		if err := a.summaryRepo.Insert(ctx, &summary); err != nil {
			return fmt.Errorf("insert summary: %w", err)
		}

		if delta != nil && *delta < 0 {
			dropPercent := math.Abs(*delta) / prior.MinPrice * 100
			if dropPercent > priceDropThreshold*100 {
				if err := a.emitPriceDrop(ctx, route, airline, travelDate, dropPercent, minPrice, *delta); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (a *Aggregator) emitPriceDrop(ctx context.Context, route, airline string, travelDate time.Time, dropPercent, newPrice, delta float64) error {
	a.logger.Info("Price drop detected",
		"route", route,
		"airline", airline,
		"travel_date", travelDate.Format(dateLayout),
		"drop_percent", dropPercent,
	)

	notif := entity.Notification{
		Type:  entity.NotifPriceAlert,
		Title: fmt.Sprintf("Price Drop: %s (%s)", route, airline),
		Message: fmt.Sprintf("%s fare for %s dropped %.1f%% to IDR %.0f",
			airline, travelDate.Format("02 Jan"), dropPercent, newPrice),
		Route:       route,
		PriceChange: delta,
	}
	if err := a.notifRepo.Insert(ctx, &notif); err != nil {
		return fmt.Errorf("insert price alert: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sampleStdDev is the sample standard deviation, 0 with fewer than two
// observations.
func sampleStdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))

	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}
