// Package attendance orquestra uma tentativa de presença: frame da sessão de
// captura → extração → identificação contra a galeria → registro no ledger.
package attendance

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/extractor"
	"github.com/saturnino-fabrica-de-software/presenca/internal/matcher"
)

type Gallery interface {
	Enroll(ctx context.Context, rollNumber, name string, descriptor domain.Descriptor) error
	Snapshot(ctx context.Context) ([]domain.Identity, error)
}

type Ledger interface {
	Record(ctx context.Context, rollNumber string) (*domain.AttendanceRecord, error)
}

// FrameSource is the capture session as the orchestrator sees it.
type FrameSource interface {
	Active() bool
	ReadFrame(ctx context.Context) (image.Image, error)
}

type Service struct {
	extractor extractor.Extractor
	gallery   Gallery
	ledger    Ledger
	frames    FrameSource
	threshold float64
	logger    *slog.Logger
}

func NewService(
	ext extractor.Extractor,
	gallery Gallery,
	ledger Ledger,
	frames FrameSource,
	logger *slog.Logger,
) *Service {
	return &Service{
		extractor: ext,
		gallery:   gallery,
		ledger:    ledger,
		frames:    frames,
		threshold: matcher.DefaultThreshold,
		logger:    logger,
	}
}

func (s *Service) WithThreshold(threshold float64) *Service {
	s.threshold = threshold
	return s
}

// Enroll cadastra uma identidade a partir de uma foto. A foto de cadastro
// precisa conter exatamente uma face; mais de uma é erro de uso, nunca uma
// escolha silenciosa.
func (s *Service) Enroll(ctx context.Context, rollNumber, name string, img image.Image) error {
	faces, err := s.extractor.Extract(ctx, img)
	if err != nil {
		return err
	}

	if len(faces) == 0 {
		return domain.ErrNoFaceDetected
	}
	if len(faces) > 1 {
		return domain.ErrMultipleFaces
	}

	return s.gallery.Enroll(ctx, rollNumber, name, faces[0].Descriptor)
}

// Capture runs one attendance attempt against the active capture session.
//
// Expected conditions (no face, multiple faces, unknown identity, attendance
// already marked, device trouble) come back as outcomes; only truly
// exceptional failures (extraction, storage) come back as errors. Nothing is
// ever recorded on a non-recognized path, and a ledger failure after a match
// leaves no partial state behind.
func (s *Service) Capture(ctx context.Context) (*domain.AttemptResult, error) {
	frame, err := s.frames.ReadFrame(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInactive) {
			return nil, err
		}
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return &domain.AttemptResult{
				Outcome: domain.OutcomeDeviceError,
				Message: appErr.Message,
			}, nil
		}
		return nil, err
	}

	faces, err := s.extractor.Extract(ctx, frame)
	if err != nil {
		return nil, err
	}

	if len(faces) == 0 {
		return &domain.AttemptResult{Outcome: domain.OutcomeNoFaceDetected}, nil
	}
	if len(faces) > 1 {
		return &domain.AttemptResult{Outcome: domain.OutcomeMultipleFaces}, nil
	}

	probe := faces[0]

	snapshot, err := s.gallery.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	match := matcher.Match(probe.Descriptor, snapshot, s.threshold)
	if match.Unknown {
		return &domain.AttemptResult{
			Outcome:  domain.OutcomeUnrecognized,
			Distance: match.Distance,
			Box:      &probe.Box,
		}, nil
	}

	record, err := s.ledger.Record(ctx, match.Identity.RollNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyMarked) {
			return &domain.AttemptResult{
				Outcome:  domain.OutcomeAlreadyMarked,
				Identity: match.Identity,
				Distance: match.Distance,
				Box:      &probe.Box,
			}, nil
		}
		return nil, err
	}

	s.logger.Info("attendance recorded",
		slog.String("roll_number", match.Identity.RollNumber),
		slog.Float64("distance", match.Distance),
	)

	return &domain.AttemptResult{
		Outcome:  domain.OutcomeRecognized,
		Identity: match.Identity,
		Record:   record,
		Distance: match.Distance,
		Box:      &probe.Box,
	}, nil
}
