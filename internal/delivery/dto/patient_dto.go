package dto

type CreatePatientRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Sex       string `json:"sex" validate:"required,oneof=M F"`
	Phone     string `json:"phone" validate:"omitempty"`
	Address   string `json:"address" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty"`
	LastName  *string `json:"last_name" validate:"omitempty"`
	Phone     *string `json:"phone" validate:"omitempty"`
	Address   *string `json:"address" validate:"omitempty"`
}

type PatientResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
	Sex       string `json:"sex"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
}
