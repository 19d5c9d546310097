package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/pkg/logger"

	"golang.org/x/oauth2"
)

const citilinkURL = "https://dotrezapi-akm.prod.citilink.co.id/qg/dotrez/api/nsk/v1/availability/search/ssr"

// CitilinkScraper collects fares from the Citilink Navitaire dotREZ API.
// It is the only adapter that needs a caller-supplied bearer token; the
// token is attached by an oauth2 static token source on the client.
type CitilinkScraper struct {
	url    string
	client *http.Client
	logger logger.Logger
}

// NewCitilinkScraper creates a Citilink adapter bound to one bearer token
func NewCitilinkScraper(token string, log logger.Logger) *CitilinkScraper {
	base := &http.Client{Timeout: requestTimeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	client := oauth2.NewClient(ctx, src)
	client.Timeout = requestTimeout

	return &CitilinkScraper{
		url:    citilinkURL,
		client: client,
		logger: log,
	}
}

func (c *CitilinkScraper) Source() string { return entity.SourceCitilink }

func (c *CitilinkScraper) SourcePage() string { return c.url }

type citilinkSearchRequest struct {
	Criteria []citilinkCriteria `json:"criteria"`
	Passengers struct {
		Types []citilinkPaxType `json:"types"`
	} `json:"passengers"`
	SSRs  []string `json:"ssrs"`
	Codes struct {
		PromotionCode string `json:"promotionCode"`
		CurrencyCode  string `json:"currencyCode"`
	} `json:"codes"`
	TaxesAndFees int `json:"taxesAndFees"`
}

type citilinkCriteria struct {
	Dates struct {
		BeginDate string `json:"beginDate"`
	} `json:"dates"`
	Filters struct {
		BundleControlFilter int      `json:"bundleControlFilter"`
		CompressionType     int      `json:"compressionType"`
		ExclusionType       int      `json:"exclusionType"`
		MaxConnections      int      `json:"maxConnections"`
		ProductClasses      []string `json:"productClasses"`
	} `json:"filters"`
	Stations struct {
		OriginStationCodes      []string `json:"originStationCodes"`
		DestinationStationCodes []string `json:"destinationStationCodes"`
		SearchOriginMacs        bool     `json:"searchOriginMacs"`
		SearchDestinationMacs   bool     `json:"searchDestinationMacs"`
	} `json:"stations"`
}

type citilinkPaxType struct {
	Count int    `json:"count"`
	Type  string `json:"type"`
}

type citilinkResponse struct {
	Data struct {
		Results []struct {
			Trips []struct {
				JourneysAvailableByMarket map[string][]citilinkJourney `json:"journeysAvailableByMarket"`
			} `json:"trips"`
		} `json:"results"`
		FaresAvailable map[string]struct {
			Totals struct {
				FareTotal float64 `json:"fareTotal"`
			} `json:"totals"`
		} `json:"faresAvailable"`
	} `json:"data"`
}

type citilinkJourney struct {
	Designator struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
		Departure   string `json:"departure"`
		Arrival     string `json:"arrival"`
	} `json:"designator"`
	Segments []struct {
		Identifier struct {
			CarrierCode string `json:"carrierCode"`
			Identifier  string `json:"identifier"`
		} `json:"identifier"`
	} `json:"segments"`
	Fares []struct {
		FareAvailabilityKey string `json:"fareAvailabilityKey"`
	} `json:"fares"`
}

// Fetch performs one availability search and parses the result.
func (c *CitilinkScraper) Fetch(ctx context.Context, origin, destination, travelDate string) ([]Flight, error) {
	payload := citilinkSearchRequest{SSRs: []string{}, TaxesAndFees: 2}

	criteria := citilinkCriteria{}
	criteria.Dates.BeginDate = travelDate
	criteria.Filters.BundleControlFilter = 2
	criteria.Filters.CompressionType = 1
	criteria.Filters.MaxConnections = 10
	criteria.Filters.ProductClasses = []string{"NR"}
	criteria.Stations.OriginStationCodes = []string{origin}
	criteria.Stations.DestinationStationCodes = []string{destination}
	payload.Criteria = []citilinkCriteria{criteria}

	payload.Passengers.Types = []citilinkPaxType{{Count: 1, Type: "ADT"}}
	payload.Codes.PromotionCode = "SPRGREEN"
	payload.Codes.CurrencyCode = "IDR"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, parseFailure(c.Source(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, transientError(c.Source(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Origin", "https://book2.citilink.co.id")
	req.Header.Set("Referer", "https://book2.citilink.co.id/")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transientError(c.Source(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(c.Source(), resp.StatusCode)
	}

	var data citilinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, parseFailure(c.Source(), err)
	}

	return c.parse(&data), nil
}

// parse joins journeys (schedule) with faresAvailable (prices) on
// fareAvailabilityKey.
func (c *CitilinkScraper) parse(data *citilinkResponse) []Flight {
	var flights []Flight

	for _, result := range data.Data.Results {
		for _, trip := range result.Trips {
			for _, journeys := range trip.JourneysAvailableByMarket {
				for _, journey := range journeys {
					d := journey.Designator

					flightNumber := timePlaceholder
					if len(journey.Segments) > 0 {
						id := journey.Segments[0].Identifier
						carrier := id.CarrierCode
						if carrier == "" {
							carrier = "QG"
						}
						flightNumber = carrier + id.Identifier
					}

					var fare float64
					if len(journey.Fares) > 0 {
						key := journey.Fares[0].FareAvailabilityKey
						if avail, ok := data.Data.FaresAvailable[key]; ok {
							fare = avail.Totals.FareTotal
						}
					}

					flights = append(flights, Flight{
						Route:        d.Origin + "-" + d.Destination,
						Airline:      "CITILINK",
						FlightNumber: flightNumber,
						TravelDate:   clipDate(d.Departure),
						DepartTime:   clipTime(d.Departure),
						ArriveTime:   clipTime(d.Arrival),
						Fare:         fare,
					})
				}
			}
		}
	}

	return flights
}
