package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	UserID      string  `json:"user_id"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Role        string  `json:"role"`
}
