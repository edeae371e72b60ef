package repository

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-listing/internal/model"
)

// Refresh tokens are stored as named auth tokens keyed by
// (user, provider, purpose).  The constants below pin the single slot this
// application uses, which is what makes "at most one valid refresh token
// per user" hold: every rotation deletes the slot before filling it again.
const (
	loginProvider    = "HotelListingApi"
	refreshTokenName = "RefreshToken"
)

// RefreshTokenRepo persists rotating refresh tokens in the user_tokens
// table.  Each row records the user's security stamp at issuance; a stamp
// rotation therefore invalidates any outstanding token without touching
// the row itself.
type RefreshTokenRepo struct {
	db *sql.DB
}

func NewRefreshTokenRepo(db *sql.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// Rotate removes any existing refresh token for the user (a missing row is
// fine), generates a new cryptographically random value and persists it
// together with the user's current security stamp.  The raw value is
// returned to hand to the client; it is never derivable from the stamp or
// the user id.
func (r *RefreshTokenRepo) Rotate(ctx context.Context, u *model.User) (string, error) {
	const qDelete = "DELETE FROM user_tokens WHERE user_id = ? AND login_provider = ? AND name = ?"
	if _, err := r.db.ExecContext(ctx, qDelete, u.ID, loginProvider, refreshTokenName); err != nil {
		return "", err
	}
	value, err := randomHex(32)
	if err != nil {
		return "", err
	}
	const qInsert = `INSERT INTO user_tokens (user_id, login_provider, name, value, security_stamp)
	                 VALUES (?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, u.ID, loginProvider, refreshTokenName, value, u.SecurityStamp); err != nil {
		return "", err
	}
	return value, nil
}

// Verify reports whether candidate matches the stored refresh token for
// the user.  The match requires the stamp recorded at issuance to still
// equal the user's current security stamp, and compares the token value in
// constant time.  A missing row is simply false, not an error.
func (r *RefreshTokenRepo) Verify(ctx context.Context, u *model.User, candidate string) (bool, error) {
	const q = `SELECT value, security_stamp FROM user_tokens
	           WHERE user_id = ? AND login_provider = ? AND name = ? LIMIT 1`
	var stored, stamp string
	err := r.db.QueryRowContext(ctx, q, u.ID, loginProvider, refreshTokenName).Scan(&stored, &stamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if stamp != u.SecurityStamp {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}

// RotateSecurityStamp assigns the user a fresh stamp, invalidating every
// refresh token issued under the previous one.  The passed user is updated
// in place so callers keep a consistent view.
func (r *RefreshTokenRepo) RotateSecurityStamp(ctx context.Context, u *model.User) error {
	stamp := uuid.NewString()
	const q = "UPDATE users SET security_stamp = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, stamp, u.ID); err != nil {
		return err
	}
	u.SecurityStamp = stamp
	return nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
