package inbound

import (
	"github.com/moolaigym/gymcore/internal/member/usecase"
	"github.com/moolaigym/gymcore/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for member authentication, PIN and
// profile workflows.
type HTTPEndpoint struct {
	uc uc
}

// Login authenticates a member and returns an access token.
// @Summary Authenticate member
// @Description Validates email and password under the lockout policy and returns an access token.
// @Tags Member, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 423 {object} router.errorResponse "Account temporarily locked"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken: resp.AccessToken,
		MemberID:    resp.MemberID,
		FullName:    resp.FullName,
		RequiresPin: resp.RequiresPin,
	}, nil
}

// Logout invalidates every access token issued for the member.
// @Summary Log out
// @Description Bumps the account token version, invalidating all issued access tokens.
// @Tags Member, Authentication
// @Produce json
// @Success 204 "Logged out"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return nil, nil
}

// RegisterRequestOTP sends a registration verification code.
// @Summary Request registration code
// @Description Issues a one-time code for an unregistered email. A newer request supersedes earlier codes.
// @Tags Member, Registration
// @Accept json
// @Produce json
// @Param request body RegisterRequestOTPRequest true "Request payload"
// @Success 200 {object} router.successResponse{data=RegisterRequestOTPResponse} "Code sent"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/register/request-otp [post]
func (h *HTTPEndpoint) RegisterRequestOTP(r *router.Request) (any, error) {
	var req RegisterRequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RegisterRequestOTP(r.Context(), usecase.RegisterRequestOTPInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return RegisterRequestOTPResponse{}, nil
}

// Register creates a member account using a verification code.
// @Summary Register member
// @Description Redeems the registration code and creates the account.
// @Tags Member, Registration
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 200 {object} router.successResponse{data=RegisterResponse} "Registration result"
// @Failure 401 {object} router.errorResponse "Invalid verification code"
// @Failure 409 {object} router.errorResponse "Email already registered or code already used"
// @Failure 410 {object} router.errorResponse "Verification code expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Password: req.Password,
		Code:     req.Code,
	}); err != nil {
		return nil, err
	}

	return RegisterResponse{}, nil
}

// PasswordForgot sends a password reset code.
// @Summary Request password reset code
// @Description Issues a reset code when the email belongs to an active member. The response never reveals whether it does.
// @Tags Member, Password
// @Accept json
// @Produce json
// @Param request body PasswordForgotRequest true "Request payload"
// @Success 200 {object} router.successResponse{data=PasswordForgotResponse} "Reset code result"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordReset sets a new password using a reset code.
// @Summary Reset password
// @Description Redeems the reset code and replaces the password. All sessions are invalidated.
// @Tags Member, Password
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Reset payload"
// @Success 200 {object} router.successResponse{data=PasswordResetResponse} "Reset result"
// @Failure 401 {object} router.errorResponse "Invalid verification code"
// @Failure 409 {object} router.errorResponse "Code already used or superseded"
// @Failure 410 {object} router.errorResponse "Verification code expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

// PasswordChange replaces the password of the authenticated member.
// @Summary Change password
// @Description Verifies the current password, stores the new one and returns a fresh access token. Other sessions are invalidated.
// @Tags Member, Password
// @Accept json
// @Produce json
// @Param request body PasswordChangeRequest true "Change payload"
// @Success 200 {object} router.successResponse{data=PasswordChangeResponse} "Change result"
// @Failure 401 {object} router.errorResponse "Current password incorrect"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/password/change [post]
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return PasswordChangeResponse{AccessToken: resp.AccessToken}, nil
}

// PinSet stores the first PIN for the authenticated member.
// @Summary Set PIN
// @Description Stores the member's first PIN. Fails when a PIN already exists.
// @Tags Member, PIN
// @Accept json
// @Produce json
// @Param request body PinSetRequest true "PIN payload"
// @Success 200 {object} router.successResponse{data=PinSetResponse} "Set result"
// @Failure 409 {object} router.errorResponse "PIN already set"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/pin [post]
func (h *HTTPEndpoint) PinSet(r *router.Request) (any, error) {
	var req PinSetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PinSet(r.Context(), usecase.PinSetInput{Pin: req.Pin}); err != nil {
		return nil, err
	}

	return PinSetResponse{}, nil
}

// PinVerify checks the PIN and returns a short-lived PIN session token.
// @Summary Verify PIN
// @Description Checks the PIN under its own lockout policy and returns a PIN session token for sensitive screens.
// @Tags Member, PIN
// @Accept json
// @Produce json
// @Param request body PinVerifyRequest true "PIN payload"
// @Success 200 {object} router.successResponse{data=PinVerifyResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "No PIN set"
// @Failure 401 {object} router.errorResponse "PIN incorrect"
// @Failure 423 {object} router.errorResponse "PIN temporarily locked"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/pin/verify [post]
func (h *HTTPEndpoint) PinVerify(r *router.Request) (any, error) {
	var req PinVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PinVerify(r.Context(), usecase.PinVerifyInput{Pin: req.Pin})
	if err != nil {
		return nil, err
	}

	return PinVerifyResponse{PinToken: resp.PinToken}, nil
}

// PinChange replaces the PIN of the authenticated member.
// @Summary Change PIN
// @Description Verifies the old PIN and stores the new one. Outstanding PIN session tokens are invalidated.
// @Tags Member, PIN
// @Accept json
// @Produce json
// @Param request body PinChangeRequest true "Change payload"
// @Success 200 {object} router.successResponse{data=PinChangeResponse} "Change result"
// @Failure 401 {object} router.errorResponse "Old PIN incorrect"
// @Failure 409 {object} router.errorResponse "New PIN equals old PIN"
// @Failure 423 {object} router.errorResponse "PIN temporarily locked"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/pin [put]
func (h *HTTPEndpoint) PinChange(r *router.Request) (any, error) {
	var req PinChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PinChange(r.Context(), usecase.PinChangeInput{
		OldPin: req.OldPin,
		NewPin: req.NewPin,
	}); err != nil {
		return nil, err
	}

	return PinChangeResponse{}, nil
}

// Profile returns the member's account view with masked contact details.
// @Summary Get profile
// @Description Returns the authenticated member's profile. Contact details are masked; the contact endpoint returns them in full.
// @Tags Member, Profile
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:       resp.ID,
		Email:    maskEmail(resp.Email),
		Phone:    maskPhone(resp.Phone),
		FullName: resp.FullName,
		Status:   resp.Status,
		HasPin:   resp.HasPin,
		JoinedAt: resp.JoinedAt,
	}, nil
}

// Contact returns the member's full contact details. Requires a recent PIN
// verification on top of the access token.
// @Summary Get full contact details
// @Description Returns unmasked email and phone. Requires the X-Pin-Token header from a recent PIN verification.
// @Tags Member, Profile
// @Produce json
// @Success 200 {object} router.successResponse{data=ContactResponse} "Contact details"
// @Failure 401 {object} router.errorResponse "PIN verification required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/members/contact [get]
func (h *HTTPEndpoint) Contact(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ContactResponse{
		Email: resp.Email,
		Phone: resp.Phone,
	}, nil
}
