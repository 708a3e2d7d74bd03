// Package capture owns the camera device handle across the start/stop
// lifecycle. At most one session may be Active at a time; the session is the
// only component allowed to read frames while it holds the handle.
package capture

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// Session é a máquina de estados Idle → Active → Idle da câmera. Todas as
// transições e leituras são serializadas por um mutex: dois Start concorrentes
// nunca acreditam ambos que possuem o dispositivo.
type Session struct {
	open   DeviceOpener
	index  int
	logger *slog.Logger

	mu     sync.Mutex
	device Device
}

func NewSession(open DeviceOpener, index int, logger *slog.Logger) *Session {
	return &Session{
		open:   open,
		index:  index,
		logger: logger,
	}
}

// Start transitions Idle → Active by acquiring the device handle.
// Fails with ErrDeviceBusy if a session is already Active and with
// ErrDeviceUnavailable if the device cannot be opened.
func (s *Session) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.ErrDeviceUnavailable.WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != nil {
		return domain.ErrDeviceBusy
	}

	device, err := s.open(s.index)
	if err != nil {
		return err
	}

	s.device = device
	s.logger.Info("capture session started", slog.Int("camera_index", s.index))
	return nil
}

// Stop transitions Active → Idle, releasing the device handle
// unconditionally. Stopping an Idle session is a no-op; a close failure on a
// degraded device is logged, never surfaced.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return
	}

	if err := s.device.Close(); err != nil {
		s.logger.Warn("closing camera device", slog.Any("error", err))
	}
	s.device = nil
	s.logger.Info("capture session stopped", slog.Int("camera_index", s.index))
}

// Active reports whether the session currently holds the device handle.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device != nil
}

// ReadFrame é válido apenas no estado Active. O mutex fica retido durante a
// leitura: o handle é um recurso exclusivo e leituras concorrentes no mesmo
// dispositivo não são permitidas.
func (s *Session) ReadFrame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return nil, domain.ErrSessionInactive
	}

	return s.device.ReadFrame(ctx)
}
