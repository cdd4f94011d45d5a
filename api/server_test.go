package api

import (
	"net/http"
	"testing"
	"time"
)

func TestNewAPI(t *testing.T) {
	api, router := NewAPI()

	if api == nil {
		t.Error("NewAPI returned nil API")
	}
	if router == nil {
		t.Error("NewAPI returned nil router")
	}
}

func TestNewAPI_HasCorrectTitle(t *testing.T) {
	api, _ := NewAPI()

	info := api.OpenAPI().Info
	expectedTitle := "SERP Cluster API"

	if info.Title != expectedTitle {
		t.Errorf("API title = %s, want %s", info.Title, expectedTitle)
	}
}

func TestNewAPI_HasCorrectVersion(t *testing.T) {
	api, _ := NewAPI()

	info := api.OpenAPI().Info
	expectedVersion := "1.0.0"

	if info.Version != expectedVersion {
		t.Errorf("API version = %s, want %s", info.Version, expectedVersion)
	}
}

func TestAPI_UsesChiRouter(t *testing.T) {
	_, router := NewAPI()

	if router == nil {
		t.Fatal("Router is nil")
	}

	// The router should implement http.Handler
	var _ http.Handler = router
}

func TestNewAPIWithMiddleware(t *testing.T) {
	api, router := NewAPIWithMiddleware(APIConfig{
		RateLimit:  10,
		RateWindow: time.Minute,
	})

	if api == nil {
		t.Error("NewAPIWithMiddleware returned nil API")
	}
	if router == nil {
		t.Error("NewAPIWithMiddleware returned nil router")
	}
}
