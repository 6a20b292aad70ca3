package handler

import "github.com/paygate/approval-service/internal/core/ports"

// errorResponse documents the error envelope for swagger.
type errorResponse struct {
	Error  string       `json:"error"`
	Fields []fieldErrorDoc `json:"fields,omitempty"`
}

type fieldErrorDoc struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=12"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN CLIENT"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=12"`
}

type authResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		ID:    r.ID,
		Email: r.Email,
		Name:  r.Name,
		Role:  string(r.Role),
		Token: r.Token,
	}
}
