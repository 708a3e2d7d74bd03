package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/blackjack/webcam"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

const (
	frameWidth  = 640
	frameHeight = 480

	// seconds handed to the V4L2 frame wait; the context deadline still
	// applies across retries
	waitTimeoutSec = 1
)

// mjpegFormat is the V4L2 fourcc for MJPEG streams.
var mjpegFormat = webcam.PixelFormat(fourcc('M', 'J', 'P', 'G'))

func fourcc(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// V4L2Device captura frames MJPEG de um dispositivo /dev/videoN.
type V4L2Device struct {
	cam     *webcam.Webcam
	timeout time.Duration
}

// OpenV4L2 opens the camera with the given index, negotiates an MJPEG stream
// and starts streaming. readTimeout bounds each ReadFrame call.
func OpenV4L2(index int, readTimeout time.Duration) (*V4L2Device, error) {
	path := fmt.Sprintf("/dev/video%d", index)

	cam, err := webcam.Open(path)
	if err != nil {
		return nil, domain.ErrDeviceUnavailable.WithError(err)
	}

	if _, ok := cam.GetSupportedFormats()[mjpegFormat]; !ok {
		_ = cam.Close()
		return nil, domain.ErrDeviceUnavailable.WithError(fmt.Errorf("device %s does not support MJPEG", path))
	}

	if _, _, _, err := cam.SetImageFormat(mjpegFormat, frameWidth, frameHeight); err != nil {
		_ = cam.Close()
		return nil, domain.ErrDeviceUnavailable.WithError(err)
	}

	if err := cam.StartStreaming(); err != nil {
		_ = cam.Close()
		return nil, domain.ErrDeviceUnavailable.WithError(err)
	}

	return &V4L2Device{cam: cam, timeout: readTimeout}, nil
}

func (d *V4L2Device) ReadFrame(ctx context.Context) (image.Image, error) {
	deadline := time.Now().Add(d.timeout)

	for {
		if err := ctx.Err(); err != nil {
			return nil, domain.ErrFrameUnavailable.WithError(err)
		}
		if time.Now().After(deadline) {
			return nil, domain.ErrFrameUnavailable.WithError(fmt.Errorf("no frame within %s", d.timeout))
		}

		if err := d.cam.WaitForFrame(waitTimeoutSec); err != nil {
			if _, timedOut := err.(*webcam.Timeout); timedOut {
				continue
			}
			return nil, domain.ErrFrameUnavailable.WithError(err)
		}

		frame, err := d.cam.ReadFrame()
		if err != nil {
			return nil, domain.ErrFrameUnavailable.WithError(err)
		}
		if len(frame) == 0 {
			continue
		}

		img, err := jpeg.Decode(bytes.NewReader(frame))
		if err != nil {
			// dropped or torn frame; try the next one
			continue
		}
		return img, nil
	}
}

func (d *V4L2Device) Close() error {
	_ = d.cam.StopStreaming()
	return d.cam.Close()
}

// NewV4L2Opener returns a DeviceOpener backed by V4L2.
func NewV4L2Opener(readTimeout time.Duration) DeviceOpener {
	return func(index int) (Device, error) {
		return OpenV4L2(index, readTimeout)
	}
}

var _ Device = (*V4L2Device)(nil)
