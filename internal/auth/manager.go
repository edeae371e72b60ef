// Package auth orchestrates registration, login and the refresh-token
// exchange.  Expected failures (bad credentials, unknown user, invalid or
// mismatched refresh token) are reported as nil results so callers cannot
// tell the cases apart; only infrastructure faults surface as errors.
package auth

import (
	"context"
	"errors"

	"github.com/iliyamo/hotel-listing/internal/model"
	"github.com/iliyamo/hotel-listing/internal/repository"
	"github.com/iliyamo/hotel-listing/internal/token"
)

// DefaultRole is granted to every user at registration.
const DefaultRole = "User"

// CredentialStore is the slice of the user repository the manager needs.
type CredentialStore interface {
	CreateUser(ctx context.Context, u *model.User, password string) ([]model.ValidationError, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	CheckPassword(u *model.User, password string) bool
	AddToRole(ctx context.Context, u *model.User, role string) error
	GetRoles(ctx context.Context, u *model.User) ([]string, error)
	GetClaims(ctx context.Context, u *model.User) ([]model.Claim, error)
}

// RefreshTokenStore rotates and checks the per-user refresh token.
type RefreshTokenStore interface {
	Rotate(ctx context.Context, u *model.User) (string, error)
	Verify(ctx context.Context, u *model.User, candidate string) (bool, error)
	RotateSecurityStamp(ctx context.Context, u *model.User) error
}

// RegisterRequest carries external registration data.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is returned to the caller after a successful login or
// refresh.  It is never persisted.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       uint64 `json:"userId"`
}

// RefreshRequest is the payload of the refresh exchange: the (possibly
// expired) access token, the refresh token and the claimed user id.
type RefreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       uint64 `json:"userId"`
}

// Manager wires the token signer, the refresh-token store and the
// credential store.  It keeps no per-request state; the subject user is
// threaded explicitly through each operation, so one Manager instance is
// safe for concurrent use.
type Manager struct {
	users  CredentialStore
	tokens RefreshTokenStore
	signer *token.Signer
}

func NewManager(users CredentialStore, tokens RefreshTokenStore, signer *token.Signer) *Manager {
	return &Manager{users: users, tokens: tokens, signer: signer}
}

// Register creates a user with username set to the email and grants the
// default role.  Validation failures come back as a non-empty slice; an
// empty slice means success.  Only store faults are returned as errors.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) ([]model.ValidationError, error) {
	u := &model.User{
		Email:     req.Email,
		UserName:  req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	verrs, err := m.users.CreateUser(ctx, u, req.Password)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		return verrs, nil
	}
	if err := m.users.AddToRole(ctx, u, DefaultRole); err != nil {
		return nil, err
	}
	return nil, nil
}

// Login verifies the credentials and, on success, issues an access token
// and rotates the refresh token.  A nil response means invalid
// credentials; unknown email and wrong password are deliberately
// indistinguishable.
func (m *Manager) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !m.users.CheckPassword(u, password) {
		return nil, nil
	}
	return m.issue(ctx, u)
}

// VerifyRefreshToken exchanges a valid refresh token for a new token pair.
// The presented access token is decoded without signature or expiry
// verification, solely to locate a candidate user by its subject claim;
// refresh must work after the access token expires, and the real
// authorization decision is the stored refresh-token match below.  A
// failed match rotates the user's security stamp so that nothing issued
// under the old stamp can be replayed, then reports plain failure.
func (m *Manager) VerifyRefreshToken(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	subject, err := m.signer.Subject(req.Token)
	if err != nil {
		// Undecodable token: same outcome as bad credentials.
		return nil, nil
	}
	u, err := m.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if u.ID != req.UserID {
		return nil, nil
	}
	ok, err := m.tokens.Verify(ctx, u, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := m.tokens.RotateSecurityStamp(ctx, u); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return m.issue(ctx, u)
}

// issue builds the response pair: a signed access token carrying the
// user's roles and stored claims, and a freshly rotated refresh token.
func (m *Manager) issue(ctx context.Context, u *model.User) (*AuthResponse, error) {
	roles, err := m.users.GetRoles(ctx, u)
	if err != nil {
		return nil, err
	}
	claims, err := m.users.GetClaims(ctx, u)
	if err != nil {
		return nil, err
	}
	access, err := m.signer.Issue(u.Email, claims, roles)
	if err != nil {
		return nil, err
	}
	refresh, err := m.tokens.Rotate(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: access, RefreshToken: refresh, UserID: u.ID}, nil
}
