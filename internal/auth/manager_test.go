package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-listing/internal/model"
	"github.com/iliyamo/hotel-listing/internal/repository"
	"github.com/iliyamo/hotel-listing/internal/token"
)

// fakeUsers is an in-memory CredentialStore.
type fakeUsers struct {
	byEmail    map[string]*model.User
	passwords  map[uint64]string
	roles      map[uint64][]string
	claims     map[uint64][]model.Claim
	policyErrs []model.ValidationError
	nextID     uint64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail:   map[string]*model.User{},
		passwords: map[uint64]string{},
		roles:     map[uint64][]string{},
		claims:    map[uint64][]model.Claim{},
		nextID:    1,
	}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *model.User, password string) ([]model.ValidationError, error) {
	if len(f.policyErrs) > 0 {
		return f.policyErrs, nil
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return []model.ValidationError{{Code: "DuplicateEmail"}}, nil
	}
	u.ID = f.nextID
	f.nextID++
	u.SecurityStamp = fmt.Sprintf("stamp-%d", u.ID)
	f.byEmail[u.Email] = u
	f.passwords[u.ID] = password
	return nil, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	// Usernames are emails in this system.
	return f.FindByEmail(ctx, username)
}

func (f *fakeUsers) CheckPassword(u *model.User, password string) bool {
	return f.passwords[u.ID] == password
}

func (f *fakeUsers) AddToRole(_ context.Context, u *model.User, role string) error {
	f.roles[u.ID] = append(f.roles[u.ID], role)
	return nil
}

func (f *fakeUsers) GetRoles(_ context.Context, u *model.User) ([]string, error) {
	return f.roles[u.ID], nil
}

func (f *fakeUsers) GetClaims(_ context.Context, u *model.User) ([]model.Claim, error) {
	return f.claims[u.ID], nil
}

// fakeTokens is an in-memory RefreshTokenStore that counts interactions.
type fakeTokens struct {
	current        map[uint64]string // latest token per user
	stamps         map[uint64]string // stamp the token was issued under
	seq            int
	verifyCalls    int
	stampRotations int
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{current: map[uint64]string{}, stamps: map[uint64]string{}}
}

func (f *fakeTokens) Rotate(_ context.Context, u *model.User) (string, error) {
	f.seq++
	value := fmt.Sprintf("refresh-%d", f.seq)
	f.current[u.ID] = value
	f.stamps[u.ID] = u.SecurityStamp
	return value, nil
}

func (f *fakeTokens) Verify(_ context.Context, u *model.User, candidate string) (bool, error) {
	f.verifyCalls++
	return f.current[u.ID] == candidate && f.stamps[u.ID] == u.SecurityStamp, nil
}

func (f *fakeTokens) RotateSecurityStamp(_ context.Context, u *model.User) error {
	f.stampRotations++
	u.SecurityStamp = fmt.Sprintf("%s'", u.SecurityStamp)
	return nil
}

func testManager() (*Manager, *fakeUsers, *fakeTokens) {
	users := newFakeUsers()
	tokens := newFakeTokens()
	signer := token.NewSigner("test-secret", "hotel-listing", "clients", 2*24*60)
	return NewManager(users, tokens, signer), users, tokens
}

func register(t *testing.T, m *Manager) {
	t.Helper()
	verrs, err := m.Register(context.Background(), RegisterRequest{
		Email: "a@x.com", Password: "P@ssw0rd1", FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	require.Empty(t, verrs)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	m, users, _ := testManager()

	register(t, m)

	u := users.byEmail["a@x.com"]
	require.NotNil(t, u)
	require.Equal(t, "a@x.com", u.UserName)
	require.Equal(t, []string{DefaultRole}, users.roles[u.ID])
}

func TestRegisterPolicyFailureReturnsErrorsWithoutRole(t *testing.T) {
	m, users, _ := testManager()
	users.policyErrs = []model.ValidationError{{Code: "PasswordTooShort"}}

	verrs, err := m.Register(context.Background(), RegisterRequest{Email: "a@x.com", Password: "x"})
	require.NoError(t, err)
	require.Len(t, verrs, 1)
	require.Empty(t, users.roles)
}

func TestLoginUnknownUser(t *testing.T) {
	m, _, _ := testManager()

	resp, err := m.Login(context.Background(), "nobody@x.com", "whatever")
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestLoginWrongPassword(t *testing.T) {
	m, _, _ := testManager()
	register(t, m)

	resp, err := m.Login(context.Background(), "a@x.com", "wrong")
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	m, users, tokens := testManager()
	register(t, m)

	resp, err := m.Login(context.Background(), "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)

	u := users.byEmail["a@x.com"]
	require.Equal(t, u.ID, resp.UserID)
	require.Equal(t, resp.RefreshToken, tokens.current[u.ID])
}

func TestLoginTokenCarriesAssignedRole(t *testing.T) {
	m, _, _ := testManager()
	register(t, m)

	resp, err := m.Login(context.Background(), "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	require.NotNil(t, resp)

	signer := token.NewSigner("test-secret", "hotel-listing", "clients", 2*24*60)
	claims, err := signer.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims["sub"])
	require.Equal(t, "User", claims[token.RoleClaim])
}

func TestSecondLoginInvalidatesFirstRefreshToken(t *testing.T) {
	m, _, _ := testManager()
	register(t, m)
	ctx := context.Background()

	first, err := m.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	second, err := m.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The superseded token must no longer refresh.
	resp, err := m.VerifyRefreshToken(ctx, RefreshRequest{
		Token: first.Token, RefreshToken: first.RefreshToken, UserID: first.UserID,
	})
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestVerifyRefreshTokenSuccessRotates(t *testing.T) {
	m, _, _ := testManager()
	register(t, m)
	ctx := context.Background()

	login, err := m.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	refreshed, err := m.VerifyRefreshToken(ctx, RefreshRequest{
		Token: login.Token, RefreshToken: login.RefreshToken, UserID: login.UserID,
	})
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	require.NotEmpty(t, refreshed.Token)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	require.Equal(t, login.UserID, refreshed.UserID)
}

func TestVerifyRefreshTokenUserIDMismatchSkipsStore(t *testing.T) {
	m, _, tokens := testManager()
	register(t, m)
	ctx := context.Background()

	login, err := m.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	before := tokens.verifyCalls
	resp, err := m.VerifyRefreshToken(ctx, RefreshRequest{
		Token: login.Token, RefreshToken: login.RefreshToken, UserID: login.UserID + 1,
	})
	require.NoError(t, err)
	require.Nil(t, resp)
	require.Equal(t, before, tokens.verifyCalls)
}

func TestVerifyRefreshTokenBadTokenRotatesStamp(t *testing.T) {
	m, users, tokens := testManager()
	register(t, m)
	ctx := context.Background()

	login, err := m.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	stampBefore := users.byEmail["a@x.com"].SecurityStamp
	resp, err := m.VerifyRefreshToken(ctx, RefreshRequest{
		Token: login.Token, RefreshToken: "tampered", UserID: login.UserID,
	})
	require.NoError(t, err)
	require.Nil(t, resp)
	require.Equal(t, 1, tokens.stampRotations)
	require.NotEqual(t, stampBefore, users.byEmail["a@x.com"].SecurityStamp)
}

func TestVerifyRefreshTokenMalformedAccessToken(t *testing.T) {
	m, _, tokens := testManager()
	register(t, m)

	resp, err := m.VerifyRefreshToken(context.Background(), RefreshRequest{
		Token: "garbage", RefreshToken: "anything", UserID: 1,
	})
	require.NoError(t, err)
	require.Nil(t, resp)
	require.Zero(t, tokens.verifyCalls)
	require.Zero(t, tokens.stampRotations)
}

func TestVerifyRefreshTokenUnknownSubject(t *testing.T) {
	m, _, _ := testManager()

	signer := token.NewSigner("test-secret", "hotel-listing", "clients", 2*24*60)
	raw, err := signer.Issue("ghost@x.com", nil, nil)
	require.NoError(t, err)

	resp, err := m.VerifyRefreshToken(context.Background(), RefreshRequest{
		Token: raw, RefreshToken: "anything", UserID: 1,
	})
	require.NoError(t, err)
	require.Nil(t, resp)
}
