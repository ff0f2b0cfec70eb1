// Package face selects the external face-model provider implementation
// from configuration.
package face

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/veriface/internal/config"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/faceapi"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/mock"
)

// ProviderType defines supported face-model provider types
type ProviderType string

const (
	// ProviderTypeFaceAPI is the HTTP face-analysis service (landmarks,
	// texture scores, emotion)
	ProviderTypeFaceAPI ProviderType = "faceapi"
	// ProviderTypeMock is the deterministic in-process provider (dev/test)
	ProviderTypeMock ProviderType = "mock"
)

// NewModelProvider creates a FaceModel instance based on configuration
//
// Environment variables:
//   - FACE_PROVIDER: "faceapi" or "mock" (default: "faceapi")
//   - FACE_API_URL: face-analysis service URL (default: "http://localhost:5005")
func NewModelProvider(cfg *config.Config) (provider.FaceModel, error) {
	providerType := ProviderType(cfg.ProviderType)

	switch providerType {
	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeFaceAPI, "":
		// Default to the HTTP service
		apiCfg := faceapi.DefaultConfig()
		if cfg.FaceAPIURL != "" {
			apiCfg.BaseURL = cfg.FaceAPIURL
		}
		return faceapi.NewProvider(apiCfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, ProviderTypeFaceAPI, ProviderTypeMock)
	}
}
