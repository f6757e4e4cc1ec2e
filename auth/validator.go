package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SignupRequest is the control-plane signup shape. Password is optional
// on purpose: accounts may be created without credentials, but when a
// password is supplied it must at least be non-trivial.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// CreateChatRequest is the control-plane chat-creation shape.
type CreateChatRequest struct {
	Name         string   `json:"name" validate:"required"`
	Type         string   `json:"type" validate:"required,oneof=private group"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
	Avatar       string   `json:"avatar"`
}

func ValidateSignup(req SignupRequest) error {
	return validate.Struct(req)
}

func ValidateLogin(req LoginRequest) error {
	return validate.Struct(req)
}

func ValidateCreateChat(req CreateChatRequest) error {
	return validate.Struct(req)
}
