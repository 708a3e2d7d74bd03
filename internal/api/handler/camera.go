package handler

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CaptureSession is the camera lifecycle as seen by the HTTP layer.
type CaptureSession interface {
	Start(ctx context.Context) error
	Stop()
	Active() bool
	ReadFrame(ctx context.Context) (image.Image, error)
}

// CameraHandler handles capture session lifecycle requests
type CameraHandler struct {
	session CaptureSession
	logger  *slog.Logger
}

func NewCameraHandler(session CaptureSession, logger *slog.Logger) *CameraHandler {
	return &CameraHandler{
		session: session,
		logger:  logger,
	}
}

// SessionResponse response for camera lifecycle endpoints
type SessionResponse struct {
	Active bool `json:"active"`
}

// Start POST /v1/camera/start - acquire the camera and begin a capture session
func (h *CameraHandler) Start(c *fiber.Ctx) error {
	if err := h.session.Start(c.Context()); err != nil {
		return err
	}

	return c.JSON(SessionResponse{Active: true})
}

// Stop POST /v1/camera/stop - release the camera. Always succeeds.
func (h *CameraHandler) Stop(c *fiber.Ctx) error {
	h.session.Stop()

	return c.JSON(SessionResponse{Active: false})
}

// Status GET /v1/camera - report whether a session is active
func (h *CameraHandler) Status(c *fiber.Ctx) error {
	return c.JSON(SessionResponse{Active: h.session.Active()})
}

// Feed GET /v1/camera/feed - MJPEG preview stream of the active session.
//
// Frames are re-encoded as JPEG and pushed as a multipart/x-mixed-replace
// body. The stream ends when the session stops or the client hangs up.
func (h *CameraHandler) Feed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary=frame")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for {
			if !h.session.Active() {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			frame, err := h.session.ReadFrame(ctx)
			cancel()
			if err != nil {
				h.logger.Warn("camera feed frame read", slog.Any("error", err))
				return
			}

			if err := writeMJPEGPart(w, frame); err != nil {
				// Client hung up
				return
			}
		}
	})

	return nil
}

func writeMJPEGPart(w *bufio.Writer, frame image.Image) error {
	if _, err := fmt.Fprint(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n"); err != nil {
		return err
	}

	if err := jpeg.Encode(w, frame, &jpeg.Options{Quality: 80}); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}

	return w.Flush()
}
