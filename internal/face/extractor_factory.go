package face

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor/deepface"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor/local"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor/mock"
)

// ExtractorType defines supported descriptor extractor types
type ExtractorType string

const (
	// ExtractorTypeLocal runs detection and encoding in-process (default)
	ExtractorTypeLocal ExtractorType = "local"
	// ExtractorTypeDeepFace delegates to a DeepFace sidecar API
	ExtractorTypeDeepFace ExtractorType = "deepface"
	// ExtractorTypeMock is deterministic and camera-free, for dev/test
	ExtractorTypeMock ExtractorType = "mock"
)

// NewExtractor creates an Extractor instance based on configuration
//
// Environment variables:
//   - EXTRACTOR_TYPE: "local", "deepface" or "mock" (default: "local")
//   - CASCADE_PATH: pigo cascade file for the local extractor
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewExtractor(cfg *config.Config) (extractor.Extractor, error) {
	switch ExtractorType(cfg.ExtractorType) {
	case ExtractorTypeLocal, "":
		ext, err := local.NewFromFile(cfg.CascadePath)
		if err != nil {
			return nil, fmt.Errorf("create local extractor: %w", err)
		}
		return ext, nil

	case ExtractorTypeDeepFace:
		deepfaceConfig := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			deepfaceConfig.BaseURL = cfg.DeepFaceURL
		}
		return deepface.New(deepfaceConfig), nil

	case ExtractorTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown extractor type: %s (supported: %s, %s, %s)",
			cfg.ExtractorType, ExtractorTypeLocal, ExtractorTypeDeepFace, ExtractorTypeMock)
	}
}
