package inbound

import (
	"context"

	"github.com/moolaigym/gymcore/internal/member/usecase"
	"github.com/moolaigym/gymcore/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Logout(ctx context.Context) error

	RegisterRequestOTP(ctx context.Context, in usecase.RegisterRequestOTPInput) error
	Register(ctx context.Context, in usecase.RegisterInput) error

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) (*usecase.PasswordChangeOutput, error)

	PinSet(ctx context.Context, in usecase.PinSetInput) error
	PinVerify(ctx context.Context, in usecase.PinVerifyInput) (*usecase.PinVerifyOutput, error)
	PinChange(ctx context.Context, in usecase.PinChangeInput) error

	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, pinGuard router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	// Authentication
	r.POST("/api/v1/members/login", end.Login)
	r.POST("/api/v1/members/logout", end.Logout) // need authenticated

	// Registration
	r.POST("/api/v1/members/register/request-otp", end.RegisterRequestOTP)
	r.POST("/api/v1/members/register", end.Register)

	// Password Management
	r.POST("/api/v1/members/password/forgot", end.PasswordForgot)
	r.POST("/api/v1/members/password/reset", end.PasswordReset)
	r.POST("/api/v1/members/password/change", end.PasswordChange) // need authenticated

	// PIN Management (need authenticated)
	r.POST("/api/v1/members/pin", end.PinSet)
	r.POST("/api/v1/members/pin/verify", end.PinVerify)
	r.PUT("/api/v1/members/pin", end.PinChange)

	// Member Profile (need authenticated)
	r.GET("/api/v1/members/profile", end.Profile)
	r.GET("/api/v1/members/contact", end.Contact, pinGuard) // need recent PIN check
}
