package usecase

import (
	"aerofare-service/internal/domain/entity"
)

// MarkLowestFares sets the lowest-fare flag on every SUCCESS quote
// matching the minimum fare within its (airline, travel date) group.
// Ties are all marked. Groups without a successful quote mark nothing.
// FAILED quotes never carry the flag.
func MarkLowestFares(quotes []entity.FlightQuote) {
	groups := make(map[string][]int)
	for i, q := range quotes {
		key := q.Airline + "|" + q.TravelDate.Format(dateLayout)
		groups[key] = append(groups[key], i)
	}

	for _, indexes := range groups {
		var minFare float64
		found := false
		for _, i := range indexes {
			if quotes[i].Status != entity.QuoteSuccess {
				continue
			}
			if !found || quotes[i].Fare < minFare {
				minFare = quotes[i].Fare
				found = true
			}
		}
		if !found {
			continue
		}
		for _, i := range indexes {
			if quotes[i].Status == entity.QuoteSuccess && quotes[i].Fare == minFare {
				quotes[i].IsLowestFare = true
			}
		}
	}
}
