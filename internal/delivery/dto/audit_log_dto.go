package dto

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    *uint                  `json:"user_id,omitempty"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt string                 `json:"created_at"`
}
