package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/pkg/logger"
)

const garudaURL = "https://web-api.garuda-indonesia.com/ga/revamp/v1.0/dapi/airFare"

// Only economy fare families are collected.
var garudaFareFamilies = map[string]bool{
	"ECO COMFORT":    true,
	"ECO AFFORDABLE": true,
	"ECO PROMO":      true,
}

// Pricing keys look like "SEG-GA157-BTHCGK-2026-02-15-1740".
var garudaSegmentKey = regexp.MustCompile(`^SEG-([A-Z]{2})(\d+)-([A-Z]{3})([A-Z]{3})-(\d{4}-\d{2}-\d{2})-(\d{2})(\d{2})$`)

// GarudaScraper collects economy fares from the Garuda Indonesia fare API.
type GarudaScraper struct {
	url    string
	client *http.Client
	logger logger.Logger
}

// NewGarudaScraper creates the Garuda adapter
func NewGarudaScraper(log logger.Logger) *GarudaScraper {
	return &GarudaScraper{
		url:    garudaURL,
		client: &http.Client{Timeout: requestTimeout},
		logger: log,
	}
}

func (g *GarudaScraper) Source() string { return entity.SourceGaruda }

func (g *GarudaScraper) SourcePage() string { return g.url }

type garudaSearchRequest struct {
	Parameter struct {
		Data garudaSearchData `json:"data"`
	} `json:"parameter"`
}

type garudaSearchData struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Class       string `json:"class"`
	Depart      string `json:"depart"`
	Pax         string `json:"pax"`
	PromoCode   string `json:"promoCode"`
	IsWeb       bool   `json:"isWeb"`
	ShowSoldOut bool   `json:"showSoldOut"`
	UpSell      bool   `json:"upSell"`
}

type garudaResponse struct {
	Result struct {
		FlightData  []garudaFlightData        `json:"flightData"`
		PricingData map[string][]garudaFamily `json:"pricingData"`
	} `json:"result"`
}

type garudaFlightData struct {
	SID    string `json:"sid"`
	Detail []struct {
		AirlineName string `json:"airlineName"`
		Departure   struct {
			DateTime string `json:"dateTime"`
		} `json:"departure"`
		Arrival struct {
			DateTime string `json:"dateTime"`
		} `json:"arrival"`
	} `json:"detail"`
}

type garudaFamily struct {
	FareFamilyDescription string `json:"fareFamilyDescription"`
	TotalPrices           []struct {
		Base  float64 `json:"base"`
		Total float64 `json:"total"`
	} `json:"totalPrices"`
}

// Fetch performs one fare search and parses the result. The Garuda API
// answers 500 for dates without flights; that is treated as no
// availability, not a failure.
func (g *GarudaScraper) Fetch(ctx context.Context, origin, destination, travelDate string) ([]Flight, error) {
	payload := garudaSearchRequest{}
	payload.Parameter.Data = garudaSearchData{
		Origin:      origin,
		Destination: destination,
		Class:       "ECONOMY",
		Depart:      travelDate,
		Pax:         "1ADT",
		IsWeb:       true,
		ShowSoldOut: true,
		UpSell:      true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, parseFailure(g.Source(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, transientError(g.Source(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, transientError(g.Source(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusInternalServerError {
		g.logger.Info("Garuda returned 500, no data available",
			"origin", origin, "destination", destination, "date", travelDate)
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(g.Source(), resp.StatusCode)
	}

	var data garudaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, parseFailure(g.Source(), err)
	}

	return g.parse(&data), nil
}

// parse joins flightData (airline name, arrival time) with pricingData
// (fares per family), keeping only the economy fare families.
func (g *GarudaScraper) parse(data *garudaResponse) []Flight {
	type flightDetail struct {
		airline string
		arrival string
	}

	lookup := make(map[string]flightDetail, len(data.Result.FlightData))
	for _, fd := range data.Result.FlightData {
		if len(fd.Detail) == 0 {
			continue
		}
		lookup[fd.SID] = flightDetail{
			airline: fd.Detail[0].AirlineName,
			arrival: fd.Detail[0].Arrival.DateTime,
		}
	}

	var flights []Flight
	for segmentKey, families := range data.Result.PricingData {
		m := garudaSegmentKey.FindStringSubmatch(segmentKey)
		if m == nil {
			continue
		}
		airlineCode, flightNo := m[1], m[2]
		org, dst := m[3], m[4]
		travelDate := m[5]
		departTime := fmt.Sprintf("%s:%s", m[6], m[7])

		airline := airlineCode
		arriveTime := timePlaceholder
		if detail, ok := lookup[segmentKey]; ok {
			if detail.airline != "" {
				airline = detail.airline
			}
			if detail.arrival != "" {
				arriveTime = clipTime(detail.arrival)
			}
		}

		for _, fam := range families {
			if !garudaFareFamilies[fam.FareFamilyDescription] {
				continue
			}
			var total float64
			if len(fam.TotalPrices) > 0 {
				total = fam.TotalPrices[0].Total
			}
			flights = append(flights, Flight{
				Route:        org + "-" + dst,
				Airline:      airline,
				FlightNumber: airlineCode + flightNo,
				TravelDate:   travelDate,
				DepartTime:   departTime,
				ArriveTime:   arriveTime,
				Fare:         total,
				FareLabel:    fam.FareFamilyDescription,
			})
		}
	}

	return flights
}
