package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aerofare-service/pkg/logger"
)

const garudaFixture = `{
  "result": {
    "flightData": [
      {
        "sid": "SEG-GA157-BTHCGK-2026-02-15-1740",
        "detail": [
          {
            "airlineName": "GARUDA INDONESIA",
            "departure": {"dateTime": "2026-02-15T17:40:00.000+07:00"},
            "arrival": {"dateTime": "2026-02-15T19:30:00.000+07:00"}
          }
        ]
      }
    ],
    "pricingData": {
      "SEG-GA157-BTHCGK-2026-02-15-1740": [
        {"fareFamilyDescription": "ECO PROMO", "totalPrices": [{"base": 800000, "total": 950000}]},
        {"fareFamilyDescription": "ECO COMFORT", "totalPrices": [{"base": 850000, "total": 1050000}]},
        {"fareFamilyDescription": "BUSINESS SMART", "totalPrices": [{"base": 2000000, "total": 2500000}]}
      ]
    }
  }
}`

func newGarudaTestScraper(handler http.HandlerFunc) (*GarudaScraper, *httptest.Server) {
	server := httptest.NewServer(handler)
	scraper := NewGarudaScraper(logger.NewNop())
	scraper.url = server.URL
	return scraper, server
}

func TestGarudaFetchParsesSegments(t *testing.T) {
	var gotBody garudaSearchRequest
	scraper, server := newGarudaTestScraper(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(garudaFixture))
	})
	defer server.Close()

	flights, err := scraper.Fetch(context.Background(), "BTH", "CGK", "2026-02-15")
	if err != nil {
		t.Fatalf("Fetch() err=%v", err)
	}

	if gotBody.Parameter.Data.Origin != "BTH" || gotBody.Parameter.Data.Depart != "2026-02-15" {
		t.Errorf("request data = %+v", gotBody.Parameter.Data)
	}
	if gotBody.Parameter.Data.Class != "ECONOMY" || gotBody.Parameter.Data.Pax != "1ADT" {
		t.Errorf("request data = %+v", gotBody.Parameter.Data)
	}

	// BUSINESS SMART is filtered out
	if len(flights) != 2 {
		t.Fatalf("got %d flights, want 2 economy fares", len(flights))
	}

	byLabel := make(map[string]Flight, len(flights))
	for _, f := range flights {
		byLabel[f.FareLabel] = f
	}
	promo, ok := byLabel["ECO PROMO"]
	if !ok {
		t.Fatalf("ECO PROMO fare missing, got %v", flights)
	}
	if promo.Fare != 950000 {
		t.Errorf("ECO PROMO fare = %v, want 950000 (total, not base)", promo.Fare)
	}
	if promo.Airline != "GARUDA INDONESIA" || promo.FlightNumber != "GA157" {
		t.Errorf("flight identity = %s/%s", promo.Airline, promo.FlightNumber)
	}
	if promo.TravelDate != "2026-02-15" || promo.DepartTime != "17:40" || promo.ArriveTime != "19:30" {
		t.Errorf("schedule = %s %s-%s", promo.TravelDate, promo.DepartTime, promo.ArriveTime)
	}
	if promo.Route != "BTH-CGK" {
		t.Errorf("route = %s, want BTH-CGK", promo.Route)
	}
}

// The Garuda API answers 500 for dates without flights. That is empty
// availability, not an error.
func TestGarudaFetch500MeansNoAvailability(t *testing.T) {
	scraper, server := newGarudaTestScraper(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	flights, err := scraper.Fetch(context.Background(), "BTH", "CGK", "2026-02-15")
	if err != nil {
		t.Fatalf("Fetch() err=%v, want nil on 500", err)
	}
	if len(flights) != 0 {
		t.Errorf("got %d flights, want 0", len(flights))
	}
}

func TestGarudaFetchUnexpectedStatusIsTransient(t *testing.T) {
	scraper, server := newGarudaTestScraper(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := scraper.Fetch(context.Background(), "BTH", "CGK", "2026-02-15")
	if !IsTransient(err) {
		t.Errorf("502 produced %v, want a transient failure", err)
	}
}

func TestGarudaFetchMalformedBodyIsParseFailure(t *testing.T) {
	scraper, server := newGarudaTestScraper(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})
	defer server.Close()

	_, err := scraper.Fetch(context.Background(), "BTH", "CGK", "2026-02-15")
	fe, ok := err.(*FetchError)
	if !ok || fe.Kind != KindParse {
		t.Errorf("malformed body produced %v, want a parse failure", err)
	}
	if IsTransient(err) {
		t.Errorf("parse failures must not be retried")
	}
}

// A segment key with no flightData entry still yields a fare, with the
// airline code as airline and a placeholder arrival.
func TestGarudaParseMissingFlightDetail(t *testing.T) {
	scraper, server := newGarudaTestScraper(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "result": {
    "flightData": [],
    "pricingData": {
      "SEG-GA152-BTHCGK-2026-02-15-0905": [
        {"fareFamilyDescription": "ECO AFFORDABLE", "totalPrices": [{"base": 900000, "total": 990000}]}
      ],
      "NOT-A-SEGMENT-KEY": [
        {"fareFamilyDescription": "ECO PROMO", "totalPrices": [{"base": 1, "total": 1}]}
      ]
    }
  }
}`))
	})
	defer server.Close()

	flights, err := scraper.Fetch(context.Background(), "BTH", "CGK", "2026-02-15")
	if err != nil {
		t.Fatalf("Fetch() err=%v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("got %d flights, want 1 (unparseable key skipped)", len(flights))
	}
	f := flights[0]
	if f.Airline != "GA" {
		t.Errorf("airline = %q, want code fallback GA", f.Airline)
	}
	if f.ArriveTime != "-" {
		t.Errorf("arrive time = %q, want placeholder", f.ArriveTime)
	}
	if f.DepartTime != "09:05" {
		t.Errorf("depart time = %q, want 09:05 from the segment key", f.DepartTime)
	}
}
