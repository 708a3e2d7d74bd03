package capture

import (
	"context"
	"image"
)

// Device is an open camera handle. Implementations are not required to be
// safe for concurrent use; the Session serializes access while it owns the
// handle.
type Device interface {
	// ReadFrame blocks until the next frame is available and decodes it.
	ReadFrame(ctx context.Context) (image.Image, error)

	// Close releases the handle. Safe to call on a degraded device.
	Close() error
}

// DeviceOpener acquires the device with the given index. It is the seam that
// lets tests run a Session against a fake camera.
type DeviceOpener func(index int) (Device, error)
