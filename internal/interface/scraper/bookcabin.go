package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/pkg/logger"
)

const bookcabinURL = "https://api-ibe.bookcabin.com/flight/v2/search"

// Only the three named low-cost carriers are collected.
var bookcabinCarriers = map[string]string{
	"IU": "Super Air Jet",
	"ID": "Batik Air",
	"JT": "Lion Air",
}

// BookCabinScraper collects low-cost carrier fares from the BookCabin
// aggregator API.
type BookCabinScraper struct {
	url    string
	client *http.Client
	logger logger.Logger
}

// NewBookCabinScraper creates the BookCabin adapter
func NewBookCabinScraper(log logger.Logger) *BookCabinScraper {
	return &BookCabinScraper{
		url:    bookcabinURL,
		client: &http.Client{Timeout: requestTimeout},
		logger: log,
	}
}

func (b *BookCabinScraper) Source() string { return entity.SourceBookCabin }

func (b *BookCabinScraper) SourcePage() string { return b.url }

type bookcabinResponse struct {
	Data struct {
		Fares struct {
			Depart []bookcabinFare `json:"depart"`
		} `json:"fares"`
	} `json:"data"`
}

type bookcabinFare struct {
	Carrier     string `json:"carrier"`
	CarrierName string `json:"carrierName"`
	Breakdowns  []struct {
		PaxType   string  `json:"paxType"`
		BaseFare  float64 `json:"baseFare"`
		TotalFare float64 `json:"totalFare"`
	} `json:"breakdowns"`
	FlightGroups []struct {
		Origin        string `json:"origin"`
		Destination   string `json:"destination"`
		NumberOfStops int    `json:"numberOfStops"`
		Flights       []struct {
			FlightNumber      string `json:"flightNumber"`
			DepartureDateTime string `json:"departureDateTime"`
			ArrivalDateTime   string `json:"arrivalDateTime"`
		} `json:"flights"`
	} `json:"flightGroups"`
}

// Fetch performs one fare search and parses the result.
func (b *BookCabinScraper) Fetch(ctx context.Context, origin, destination, travelDate string) ([]Flight, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("departureDate", travelDate)
	params.Set("countAdult", strconv.Itoa(1))
	params.Set("countChild", strconv.Itoa(0))
	params.Set("countInfant", strconv.Itoa(0))
	params.Set("cabinClass", "ECONOMY")
	params.Set("tripType", "ONE_WAY")
	params.Set("promoCode", "")
	params.Set("currencyCode", "IDR")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, transientError(b.Source(), err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, transientError(b.Source(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(b.Source(), resp.StatusCode)
	}

	var data bookcabinResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, parseFailure(b.Source(), err)
	}

	return b.parse(&data), nil
}

// parse keeps allow-listed carriers and direct flights only, pricing
// from the ADULT fare breakdown.
func (b *BookCabinScraper) parse(data *bookcabinResponse) []Flight {
	var flights []Flight

	for _, fare := range data.Data.Fares.Depart {
		carrierName, ok := bookcabinCarriers[fare.Carrier]
		if !ok {
			continue
		}
		if fare.CarrierName != "" {
			carrierName = fare.CarrierName
		}

		var totalFare float64
		for _, bd := range fare.Breakdowns {
			if bd.PaxType == "ADULT" {
				totalFare = bd.TotalFare
				break
			}
		}

		if len(fare.FlightGroups) == 0 {
			continue
		}
		group := fare.FlightGroups[0]
		// Direct flights only
		if group.NumberOfStops > 0 || len(group.Flights) != 1 {
			continue
		}

		flight := group.Flights[0]
		flights = append(flights, Flight{
			Route:        group.Origin + "-" + group.Destination,
			Airline:      carrierName,
			FlightNumber: fare.Carrier + flight.FlightNumber,
			TravelDate:   clipDate(flight.DepartureDateTime),
			DepartTime:   clipTime(flight.DepartureDateTime),
			ArriveTime:   clipTime(flight.ArrivalDateTime),
			Fare:         totalFare,
		})
	}

	return flights
}
