package handler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Enroller cadastra uma identidade a partir de uma foto com exatamente uma face.
type Enroller interface {
	Enroll(ctx context.Context, rollNumber, name string, img image.Image) error
}

// Gallery interface for identity lookups
type Gallery interface {
	Snapshot(ctx context.Context) ([]domain.Identity, error)
	Get(ctx context.Context, rollNumber string) (*domain.Identity, error)
	Delete(ctx context.Context, rollNumber string) error
}

// IdentityHandler handles identity enrollment and lookup requests
type IdentityHandler struct {
	enroller Enroller
	gallery  Gallery
	logger   *slog.Logger
}

func NewIdentityHandler(enroller Enroller, gallery Gallery, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		enroller: enroller,
		gallery:  gallery,
		logger:   logger,
	}
}

// IdentityResponse response for identity endpoints
type IdentityResponse struct {
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
	Photos     int    `json:"photos"`
	CreatedAt  string `json:"created_at"`
}

func toIdentityResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		RollNumber: identity.RollNumber,
		Name:       identity.Name,
		Photos:     len(identity.Descriptors),
		CreatedAt:  identity.CreatedAt.Format(time.RFC3339),
	}
}

// Enroll POST /v1/identities - enroll an identity from a photo
func (h *IdentityHandler) Enroll(c *fiber.Ctx) error {
	// 1. Extract form fields
	rollNumber := strings.TrimSpace(c.FormValue("roll_number"))
	if rollNumber == "" {
		return domain.ErrValidationFailed.WithError(errors.New("roll_number is required"))
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	// 2. Extract and decode image
	img, err := extractAndDecodeImage(c)
	if err != nil {
		return fmt.Errorf("enroll identity: %w", err)
	}

	// 3. Call service to enroll
	if err := h.enroller.Enroll(c.Context(), rollNumber, name, img); err != nil {
		return err
	}

	h.logger.Info("identity enrolled", slog.String("roll_number", rollNumber))

	// 4. Return the stored identity
	identity, err := h.gallery.Get(c.Context(), rollNumber)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toIdentityResponse(identity))
}

// List GET /v1/identities - list enrolled identities
func (h *IdentityHandler) List(c *fiber.Ctx) error {
	identities, err := h.gallery.Snapshot(c.Context())
	if err != nil {
		return err
	}

	resp := make([]IdentityResponse, 0, len(identities))
	for i := range identities {
		resp = append(resp, toIdentityResponse(&identities[i]))
	}

	return c.JSON(resp)
}

// Get GET /v1/identities/:roll_number - fetch a single identity
func (h *IdentityHandler) Get(c *fiber.Ctx) error {
	rollNumber := strings.TrimSpace(c.Params("roll_number"))
	if rollNumber == "" {
		return domain.ErrValidationFailed.WithError(errors.New("roll_number is required"))
	}

	identity, err := h.gallery.Get(c.Context(), rollNumber)
	if err != nil {
		return err
	}

	return c.JSON(toIdentityResponse(identity))
}

// Delete DELETE /v1/identities/:roll_number - remove identity and descriptors (LGPD)
func (h *IdentityHandler) Delete(c *fiber.Ctx) error {
	rollNumber := strings.TrimSpace(c.Params("roll_number"))
	if rollNumber == "" {
		return domain.ErrValidationFailed.WithError(errors.New("roll_number is required"))
	}

	if err := h.gallery.Delete(c.Context(), rollNumber); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// extractAndDecodeImage extracts and decodes the image from the form
func extractAndDecodeImage(c *fiber.Ctx) (image.Image, error) {
	// 1. Extract file
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	// 2. Validate size
	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	// 3. Validate Content-Type
	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	// 4. Decode
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return img, nil
}
