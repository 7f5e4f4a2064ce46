package services_test

import (
	"encoding/base64"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/pkg/logger"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// pngBytes is a minimal PNG header, enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

var pngDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

// testConfig has no trigger URLs, so no webhook goroutines are started
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AppEnv: "development"},
		Session: config.SessionConfig{
			Store:        config.SessionStoreMemory,
			TTLHours:     24,
			CookieSecure: true,
		},
	}
}

func strPtr(s string) *string {
	return &s
}
