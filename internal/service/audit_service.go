package service

import (
	"context"

	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogAction(ctx context.Context, db *gorm.DB, userID *uint, action string, metadata entity.JSON) error
}

type auditService struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogAction records one audit entry. Callers treat failures as
// non-fatal; the clinical write the entry describes stays committed.
func (s *auditService) LogAction(ctx context.Context, db *gorm.DB, userID *uint, action string, metadata entity.JSON) error {
	if db == nil {
		db = s.db
	}

	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(db.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
