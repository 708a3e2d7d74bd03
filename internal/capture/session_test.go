package capture

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type fakeDevice struct {
	mu       sync.Mutex
	reads    int
	closed   bool
	readErr  error
	closeErr error
}

func (d *fakeDevice) ReadFrame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readErr != nil {
		return nil, d.readErr
	}
	d.reads++
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return d.closeErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeOpener(device *fakeDevice) DeviceOpener {
	return func(index int) (Device, error) {
		return device, nil
	}
}

func TestSession_StartStop(t *testing.T) {
	device := &fakeDevice{}
	session := NewSession(fakeOpener(device), 0, testLogger())

	assert.False(t, session.Active())

	require.NoError(t, session.Start(context.Background()))
	assert.True(t, session.Active())

	session.Stop()
	assert.False(t, session.Active())
	assert.True(t, device.closed)
}

func TestSession_DoubleStartIsBusy(t *testing.T) {
	session := NewSession(fakeOpener(&fakeDevice{}), 0, testLogger())

	require.NoError(t, session.Start(context.Background()))

	err := session.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrDeviceBusy)

	// The first session must survive the failed second start
	assert.True(t, session.Active())
}

func TestSession_StartAfterStop(t *testing.T) {
	session := NewSession(fakeOpener(&fakeDevice{}), 0, testLogger())

	require.NoError(t, session.Start(context.Background()))
	session.Stop()

	require.NoError(t, session.Start(context.Background()))
	assert.True(t, session.Active())
}

func TestSession_StopIsIdempotent(t *testing.T) {
	device := &fakeDevice{}
	session := NewSession(fakeOpener(device), 0, testLogger())

	// Stopping an idle session is a no-op
	session.Stop()
	assert.False(t, session.Active())

	require.NoError(t, session.Start(context.Background()))
	session.Stop()
	session.Stop()
	assert.False(t, session.Active())
}

func TestSession_StopSwallowsCloseError(t *testing.T) {
	device := &fakeDevice{closeErr: errors.New("device wedged")}
	session := NewSession(fakeOpener(device), 0, testLogger())

	require.NoError(t, session.Start(context.Background()))

	// A degraded device must not keep the session stuck in Active
	session.Stop()
	assert.False(t, session.Active())
}

func TestSession_OpenerFailure(t *testing.T) {
	opener := func(index int) (Device, error) {
		return nil, domain.ErrDeviceUnavailable
	}
	session := NewSession(opener, 0, testLogger())

	err := session.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
	assert.False(t, session.Active())
}

func TestSession_ReadFrame(t *testing.T) {
	device := &fakeDevice{}
	session := NewSession(fakeOpener(device), 0, testLogger())

	_, err := session.ReadFrame(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionInactive)

	require.NoError(t, session.Start(context.Background()))

	frame, err := session.ReadFrame(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, frame)

	session.Stop()

	_, err = session.ReadFrame(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionInactive)
}

func TestSession_ReadFrameDeviceError(t *testing.T) {
	device := &fakeDevice{readErr: domain.ErrFrameUnavailable}
	session := NewSession(fakeOpener(device), 0, testLogger())

	require.NoError(t, session.Start(context.Background()))

	_, err := session.ReadFrame(context.Background())
	assert.ErrorIs(t, err, domain.ErrFrameUnavailable)

	// A failed read does not tear the session down on its own
	assert.True(t, session.Active())
}

func TestSession_ConcurrentStart(t *testing.T) {
	session := NewSession(fakeOpener(&fakeDevice{}), 0, testLogger())

	const goroutines = 8
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- session.Start(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	// Exactly one start wins the device handle
	var ok, busy int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDeviceBusy):
			busy++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, goroutines-1, busy)
}
