package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Disease enumerates the exam/prediction targets the platform models.
type Disease string

const (
	DiseaseMetabolic          Disease = "METABOLIC"
	DiseaseRenal              Disease = "RENAL"
	DiseaseCardiovascular     Disease = "CARDIOVASCULAR"
	DiseaseRespiratoryImaging Disease = "RESPIRATORY_IMAGING"
)

// Diseases lists every known disease tag.
var Diseases = []Disease{
	DiseaseMetabolic,
	DiseaseRenal,
	DiseaseCardiovascular,
	DiseaseRespiratoryImaging,
}

// IsValid reports whether d is a known disease tag.
func (d Disease) IsValid() bool {
	for _, known := range Diseases {
		if d == known {
			return true
		}
	}
	return false
}

// Prediction is a finished model output for one visit. Rows are
// immutable; corrections happen via validations, never mutation.
type Prediction struct {
	ID                   uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	VisitID              uint        `gorm:"not null;index" json:"visit_id"`
	Disease              Disease     `gorm:"type:varchar(30);not null;index" json:"disease"`
	Probability          float64     `gorm:"type:decimal(5,4);not null" json:"probability"`
	Threshold            float64     `gorm:"type:decimal(5,4);not null" json:"threshold"`
	ConfidenceLabel      string      `gorm:"type:varchar(30)" json:"confidence_label,omitempty"`
	ContributingFeatures StringArray `gorm:"type:jsonb" json:"contributing_features,omitempty"`
	Interpretation       string      `gorm:"type:text" json:"interpretation,omitempty"`
	Recommendation       string      `gorm:"type:text" json:"recommendation,omitempty"`
	PredictedAt          time.Time   `gorm:"autoCreateTime;index" json:"predicted_at"`

	// Relationships
	Visit       Visit        `gorm:"foreignKey:VisitID" json:"visit,omitempty"`
	Validations []Validation `gorm:"foreignKey:PredictionID" json:"validations,omitempty"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// IsPositive reports whether the probability crossed the decision threshold.
func (p *Prediction) IsPositive() bool {
	return p.Probability >= p.Threshold
}

// StringArray is a JSONB-backed string list for GORM
type StringArray []string

// Value returns json value, implement driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan scan value into StringArray, implements sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	var result []string
	err := json.Unmarshal(bytes, &result)
	*a = StringArray(result)
	return err
}
