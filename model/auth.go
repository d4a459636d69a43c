package model

type Auth struct {
	TokenID string `json:"token_id,omitempty" validate:"required"`
	OTP     string `json:"otp,omitempty"`
}
