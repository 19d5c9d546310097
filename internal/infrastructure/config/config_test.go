package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() err=%v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.ScheduleTime != "07:30" || cfg.Timezone != "Asia/Jakarta" {
		t.Errorf("schedule = %s %s", cfg.ScheduleTime, cfg.Timezone)
	}
	if cfg.DefaultEndDate != "2026-03-31" {
		t.Errorf("default end date = %q", cfg.DefaultEndDate)
	}
	if len(cfg.Routes) != 5 {
		t.Fatalf("got %d default routes, want 5", len(cfg.Routes))
	}
	if cfg.Routes[0].Code() != "BTH-CGK" || cfg.Routes[4].Code() != "TNJ-CGK" {
		t.Errorf("routes = %v", cfg.Routes)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCRAPE_DELAY_MS", "50")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() err=%v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.ScrapeDelay.Milliseconds() != 50 {
		t.Errorf("scrape delay = %v, want 50ms", cfg.ScrapeDelay)
	}
}

func TestLoadRoutesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	content := []byte("routes:\n  - origin: CGK\n    destination: DPS\n  - origin: CGK\n    destination: SRG\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}

	routes, err := loadRoutes(path)
	if err != nil {
		t.Fatalf("loadRoutes() err=%v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].Code() != "CGK-DPS" || routes[1].Code() != "CGK-SRG" {
		t.Errorf("routes = %v", routes)
	}
}

func TestLoadRoutesEmptyFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	if err := os.WriteFile(path, []byte("routes: []\n"), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}

	routes, err := loadRoutes(path)
	if err != nil {
		t.Fatalf("loadRoutes() err=%v", err)
	}
	if len(routes) != 5 {
		t.Errorf("got %d routes, want the 5 defaults", len(routes))
	}
}

func TestLoadRoutesMissingFileFails(t *testing.T) {
	if _, err := loadRoutes("/no/such/routes.yaml"); err == nil {
		t.Errorf("missing routes file accepted")
	}
}
