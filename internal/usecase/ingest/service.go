// Package ingest consumes batches of sessions and logs recorded by a
// device while offline. A batch commits all-or-nothing: partial
// ingestion would silently drop telemetry with no way for the device to
// know what succeeded.
package ingest

import (
	"context"
	"errors"
	"fmt"

	domainDevice "clinic-device-backend/internal/domain/device"
	domainPatient "clinic-device-backend/internal/domain/patient"
	domainSession "clinic-device-backend/internal/domain/session"
	"clinic-device-backend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	sessionRepo domainSession.Repository
	patientRepo domainPatient.Repository
	tokens      domainPatient.TokenResolver
}

func NewService(sessionRepo domainSession.Repository, patientRepo domainPatient.Repository, tokens domainPatient.TokenResolver) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		patientRepo: patientRepo,
		tokens:      tokens,
	}
}

// DuplicateError reports a replayed idempotency key along with the
// counts recorded when the batch was first processed.
type DuplicateError struct {
	Receipt *domainSession.Receipt
}

func (e *DuplicateError) Error() string {
	return domainSession.ErrDuplicateBatch.Error()
}

func (e *DuplicateError) Is(target error) bool {
	return target == domainSession.ErrDuplicateBatch
}

// Ingest validates and commits one batch for the device. Reference
// validation happens before anything is persisted; patient resolution
// failures leave the session without a patient rather than blocking
// data collection.
func (s *Service) Ingest(ctx context.Context, dev *domainDevice.Device, req *BatchRequest) (*Result, error) {
	refs := make(map[string]struct{}, len(req.Sessions))
	for _, item := range req.Sessions {
		refs[item.Reference] = struct{}{}
	}
	for _, l := range req.Logs {
		if _, ok := refs[l.SessionReference]; !ok {
			return nil, fmt.Errorf("%w: %q", domainSession.ErrUnknownSessionRef, l.SessionReference)
		}
	}

	if req.IdempotencyKey != "" {
		receipt, err := s.sessionRepo.GetReceipt(ctx, dev.ID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return nil, &DuplicateError{Receipt: receipt}
		}
	}

	sessions := make([]*domainSession.Session, 0, len(req.Sessions))
	for _, item := range req.Sessions {
		sessions = append(sessions, &domainSession.Session{
			DeviceID:  dev.ID,
			ClinicID:  dev.ClinicID,
			PatientID: s.resolvePatient(ctx, dev, item),
			Summary:   item.Summary,
			StartTime: item.StartTime,
			EndedAt:   item.EndedAt,
			ClientRef: item.Reference,
		})
	}

	logs := make([]*domainSession.Log, 0, len(req.Logs))
	for _, item := range req.Logs {
		logs = append(logs, &domainSession.Log{
			LogType:    domainSession.LogType(item.LogType),
			Message:    item.Message,
			LoggedAt:   item.LoggedAt,
			SessionRef: item.SessionReference,
		})
	}

	var receipt *domainSession.Receipt
	if req.IdempotencyKey != "" {
		receipt = &domainSession.Receipt{
			DeviceID:        dev.ID,
			IdempotencyKey:  req.IdempotencyKey,
			SessionsCreated: len(sessions),
			LogsCreated:     len(logs),
		}
	}

	if err := s.sessionRepo.CommitBatch(ctx, sessions, logs, receipt); err != nil {
		if errors.Is(err, domainSession.ErrDuplicateBatch) {
			// Concurrent retry won the race; surface it the same way.
			stored, getErr := s.sessionRepo.GetReceipt(ctx, dev.ID, req.IdempotencyKey)
			if getErr == nil && stored != nil {
				return nil, &DuplicateError{Receipt: stored}
			}
		}
		return nil, err
	}

	logger.Info("Batch ingested",
		zap.String("device_id", dev.ID.String()),
		zap.Int("sessions", len(sessions)),
		zap.Int("logs", len(logs)),
	)

	return &Result{
		SessionsCreated: len(sessions),
		LogsCreated:     len(logs),
	}, nil
}

// resolvePatient tries the direct patient ID first, then the temporary
// token. Both are best effort: an unmatched lookup returns nil and the
// session is persisted without a patient.
func (s *Service) resolvePatient(ctx context.Context, dev *domainDevice.Device, item SessionItem) *uuid.UUID {
	if item.PatientID != nil {
		p, err := s.patientRepo.GetByID(ctx, *item.PatientID)
		if err == nil {
			return &p.ID
		}
		logger.Debug("Patient lookup failed during ingest",
			zap.String("device_id", dev.ID.String()),
			zap.String("patient_id", item.PatientID.String()),
		)
		return nil
	}

	if item.PatientToken != "" {
		p, err := s.tokens.Resolve(ctx, item.PatientToken)
		if err == nil {
			return &p.ID
		}
		logger.Debug("Patient token resolution failed during ingest",
			zap.String("device_id", dev.ID.String()),
		)
	}

	return nil
}
