package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainSession "clinic-device-backend/internal/domain/session"
	"clinic-device-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) domainSession.Repository {
	return &SessionRepository{db: db}
}

// CommitBatch persists the batch in one transaction: sessions first,
// then logs bound to the session created from the matching client
// reference, then the idempotency receipt. Any failure rolls back the
// whole batch.
func (r *SessionRepository) CommitBatch(ctx context.Context, sessions []*domainSession.Session, logs []*domainSession.Log, receipt *domainSession.Receipt) error {
	now := time.Now()

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idByRef := make(map[string]uuid.UUID, len(sessions))

		for _, s := range sessions {
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.CreatedAt = now

			if err := tx.Create(toSessionModel(s)).Error; err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
			idByRef[s.ClientRef] = s.ID
		}

		if len(logs) > 0 {
			logModels := make([]models.SessionLogModel, len(logs))
			for i, l := range logs {
				sessionID, ok := idByRef[l.SessionRef]
				if !ok {
					return domainSession.ErrUnknownSessionRef
				}
				if l.ID == uuid.Nil {
					l.ID = uuid.New()
				}
				l.SessionID = sessionID
				l.CreatedAt = now

				logModels[i] = models.SessionLogModel{
					ID:        l.ID,
					SessionID: l.SessionID,
					LogType:   string(l.LogType),
					Message:   l.Message,
					LoggedAt:  l.LoggedAt,
					CreatedAt: l.CreatedAt,
				}
			}

			if err := tx.CreateInBatches(logModels, 500).Error; err != nil {
				return fmt.Errorf("failed to create session logs: %w", err)
			}
		}

		if receipt != nil {
			if receipt.ID == uuid.Nil {
				receipt.ID = uuid.New()
			}
			receipt.CreatedAt = now

			err := tx.Create(&models.BatchReceiptModel{
				ID:              receipt.ID,
				DeviceID:        receipt.DeviceID,
				IdempotencyKey:  receipt.IdempotencyKey,
				SessionsCreated: receipt.SessionsCreated,
				LogsCreated:     receipt.LogsCreated,
				CreatedAt:       receipt.CreatedAt,
			}).Error
			if err != nil {
				if strings.Contains(err.Error(), "duplicate key value") {
					return domainSession.ErrDuplicateBatch
				}
				return fmt.Errorf("failed to record batch receipt: %w", err)
			}
		}

		return nil
	})
}

func (r *SessionRepository) GetReceipt(ctx context.Context, deviceID uuid.UUID, key string) (*domainSession.Receipt, error) {
	var dbModel models.BatchReceiptModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ? AND idempotency_key = ?", deviceID, key).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch receipt: %w", err)
	}

	return &domainSession.Receipt{
		ID:              dbModel.ID,
		DeviceID:        dbModel.DeviceID,
		IdempotencyKey:  dbModel.IdempotencyKey,
		SessionsCreated: dbModel.SessionsCreated,
		LogsCreated:     dbModel.LogsCreated,
		CreatedAt:       dbModel.CreatedAt,
	}, nil
}

func toSessionModel(s *domainSession.Session) *models.SessionModel {
	return &models.SessionModel{
		ID:        s.ID,
		DeviceID:  s.DeviceID,
		ClinicID:  s.ClinicID,
		PatientID: s.PatientID,
		Summary:   s.Summary,
		StartTime: s.StartTime,
		EndedAt:   s.EndedAt,
		CreatedAt: s.CreatedAt,
	}
}
