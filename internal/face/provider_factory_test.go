package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/config"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/faceapi"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/mock"
)

func TestNewModelProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		wantType     any
		wantErr      bool
	}{
		{"faceapi", "faceapi", &faceapi.Provider{}, false},
		{"empty defaults to faceapi", "", &faceapi.Provider{}, false},
		{"mock", "mock", &mock.Provider{}, false},
		{"unknown", "oracle", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				ProviderType: tt.providerType,
				FaceAPIURL:   "http://models:5005",
			}

			got, err := NewModelProvider(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, got)
		})
	}
}
