package employee

type CreateEmployeeRequest struct {
	FirstName          string   `json:"first_name" binding:"required"`
	LastName           string   `json:"last_name" binding:"required"`
	Email              string   `json:"email" binding:"required,email"`
	Department         string   `json:"department"`
	Position           string   `json:"position"`
	HireDate           string   `json:"hire_date"`
	BaseSalary         float64  `json:"base_salary" binding:"gte=0"`
	MaritalStatus      string   `json:"marital_status" binding:"omitempty,oneof=single married divorced widowed"`
	DependentCount     int      `json:"dependent_count" binding:"gte=0"`
	TransportAllowance *float64 `json:"transport_allowance"`
	WorkStartTime      string   `json:"work_start_time"`
	WorkplaceLat       *float64 `json:"workplace_lat"`
	WorkplaceLng       *float64 `json:"workplace_lng"`
}

type UpdateEmployeeRequest struct {
	FirstName          string   `json:"first_name" binding:"required"`
	LastName           string   `json:"last_name" binding:"required"`
	Department         string   `json:"department"`
	Position           string   `json:"position"`
	HireDate           string   `json:"hire_date"`
	BaseSalary         float64  `json:"base_salary" binding:"gte=0"`
	MaritalStatus      string   `json:"marital_status" binding:"omitempty,oneof=single married divorced widowed"`
	DependentCount     int      `json:"dependent_count" binding:"gte=0"`
	TransportAllowance *float64 `json:"transport_allowance"`
	WorkStartTime      string   `json:"work_start_time"`
	WorkplaceLat       *float64 `json:"workplace_lat"`
	WorkplaceLng       *float64 `json:"workplace_lng"`
}

type EmployeeResponse struct {
	ID                 string   `json:"id"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email"`
	Department         string   `json:"department,omitempty"`
	Position           string   `json:"position,omitempty"`
	Status             string   `json:"status"`
	HireDate           *string  `json:"hire_date,omitempty"`
	BaseSalary         float64  `json:"base_salary"`
	MaritalStatus      string   `json:"marital_status"`
	DependentCount     int      `json:"dependent_count"`
	TransportAllowance *float64 `json:"transport_allowance,omitempty"`
	WorkStartTime      string   `json:"work_start_time"`
}
