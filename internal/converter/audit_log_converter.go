package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func AuditLogToResponse(auditLog *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:        auditLog.ID,
		UserID:    auditLog.UserID,
		Action:    auditLog.Action,
		Metadata:  auditLog.Metadata,
		CreatedAt: auditLog.CreatedAt.Format(time.RFC3339),
	}
}

func AuditLogsToResponses(auditLogs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(auditLogs))
	for i := range auditLogs {
		responses = append(responses, AuditLogToResponse(&auditLogs[i]))
	}
	return responses
}
