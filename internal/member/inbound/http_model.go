package inbound

import (
	"strings"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	MemberID    int64  `json:"member_id,string"`
	FullName    string `json:"full_name"`
	RequiresPin bool   `json:"requires_pin"`
}

type RegisterRequestOTPRequest struct {
	Email string `json:"email"`
}

type RegisterRequestOTPResponse struct{}

func (RegisterRequestOTPResponse) Message() string {
	return "We have sent a verification code to your email."
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type RegisterResponse struct{}

func (RegisterResponse) Message() string {
	return "Registration successful. You can now log in."
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) Message() string {
	return "If an account with that email exists, we have sent a reset code."
}

type PasswordResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Password has been reset. Please log in with your new password."
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type PasswordChangeResponse struct {
	AccessToken string `json:"access_token"`
}

func (PasswordChangeResponse) Message() string {
	return "Password has been changed."
}

type PinSetRequest struct {
	Pin string `json:"pin"`
}

type PinSetResponse struct{}

func (PinSetResponse) Message() string {
	return "PIN has been set."
}

type PinVerifyRequest struct {
	Pin string `json:"pin"`
}

type PinVerifyResponse struct {
	PinToken string `json:"pin_token"`
}

type PinChangeRequest struct {
	OldPin string `json:"old_pin"`
	NewPin string `json:"new_pin"`
}

type PinChangeResponse struct{}

func (PinChangeResponse) Message() string {
	return "PIN has been changed. Verify again to continue."
}

type ProfileResponse struct {
	ID       int64     `json:"id,string"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	FullName string    `json:"full_name"`
	Status   string    `json:"status"`
	HasPin   bool      `json:"has_pin"`
	JoinedAt time.Time `json:"joined_at"`
}

type ContactResponse struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return email
	}

	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + "@" + domain
	}

	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + "@" + domain
}

func maskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	const visible = 4
	if len(phone) <= visible {
		return strings.Repeat("*", len(phone))
	}

	return strings.Repeat("*", len(phone)-visible) + phone[len(phone)-visible:]
}
