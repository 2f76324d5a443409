package session

import (
	"context"

	"github.com/bramble-app/bramble-go/internal/api"
	apperrors "github.com/bramble-app/bramble-go/pkg/errors"
)

// Login authenticates against the API and adopts the returned token.
func (m *Manager) Login(ctx context.Context, client *api.Client, email, password string) error {
	resp, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return m.SetCredential(resp.Token)
}

// Register creates an account and returns the OTP challenge; the session
// stays anonymous until VerifyOTP succeeds.
func (m *Manager) Register(ctx context.Context, client *api.Client, req api.RegisterRequest) (*api.RegisterResponse, error) {
	return client.Register(ctx, req)
}

// VerifyOTP confirms a registration and adopts the issued token.
func (m *Manager) VerifyOTP(ctx context.Context, client *api.Client, otp, email string) error {
	resp, err := client.VerifyOTP(ctx, api.VerifyOTPRequest{OTP: otp, Email: email})
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return apperrors.Internal("OTP verification succeeded but no token was returned")
	}
	return m.SetCredential(resp.Token)
}
