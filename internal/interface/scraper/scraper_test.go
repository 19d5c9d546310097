package scraper

import (
	"errors"
	"testing"

	"aerofare-service/internal/domain/entity"
	"aerofare-service/pkg/logger"
)

func TestSourceSetEligibleWithoutCredential(t *testing.T) {
	set := NewSourceSet(logger.NewNop())

	scrapers := set.Eligible("")
	if len(scrapers) != 2 {
		t.Fatalf("got %d adapters, want 2 without a credential", len(scrapers))
	}
	for _, sc := range scrapers {
		if sc.Source() == entity.SourceCitilink {
			t.Errorf("citilink adapter eligible without a credential")
		}
	}
}

func TestSourceSetEligibleWithCredential(t *testing.T) {
	set := NewSourceSet(logger.NewNop())

	scrapers := set.Eligible("some-token")
	if len(scrapers) != 3 {
		t.Fatalf("got %d adapters, want 3 with a credential", len(scrapers))
	}
	sources := make(map[string]bool, len(scrapers))
	for _, sc := range scrapers {
		sources[sc.Source()] = true
	}
	for _, want := range []string{entity.SourceGaruda, entity.SourceCitilink, entity.SourceBookCabin} {
		if !sources[want] {
			t.Errorf("source %s missing from eligible set", want)
		}
	}
}

func TestStatusErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrKind
	}{
		{401, KindAuth},
		{403, KindAuth},
		{404, KindTransient},
		{429, KindTransient},
		{502, KindTransient},
	}
	for _, tc := range cases {
		err := statusError("garuda_api", tc.status)
		if err.Kind != tc.kind {
			t.Errorf("status %d classified as %s, want %s", tc.status, err.Kind, tc.kind)
		}
		if err.StatusCode != tc.status {
			t.Errorf("status code = %d, want %d", err.StatusCode, tc.status)
		}
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := transientError("bookcabin_api", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is failed to reach the cause")
	}
	if !IsTransient(err) || IsAuth(err) {
		t.Errorf("classification helpers disagree: %v", err)
	}
}

func TestClipTimeAndDate(t *testing.T) {
	if got := clipTime("2026-02-15T19:30:00.000+07:00"); got != "19:30" {
		t.Errorf("clipTime = %q, want 19:30", got)
	}
	if got := clipTime("bad"); got != "-" {
		t.Errorf("clipTime short input = %q, want placeholder", got)
	}
	if got := clipDate("2026-02-15T19:30:00"); got != "2026-02-15" {
		t.Errorf("clipDate = %q, want 2026-02-15", got)
	}
	if got := clipDate(""); got != "-" {
		t.Errorf("clipDate empty input = %q, want placeholder", got)
	}
}
