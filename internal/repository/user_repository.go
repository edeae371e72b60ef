package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-listing/internal/model"
)

// UserRepo is the credential store: it owns the users, user_roles and
// user_claims tables.  Expected registration failures (weak password,
// duplicate email) come back as model.ValidationError values; only
// infrastructure faults are returned as errors.
type UserRepo struct {
	db   *sql.DB
	cost int // bcrypt cost
}

func NewUserRepo(db *sql.DB, bcryptCost int) *UserRepo {
	return &UserRepo{db: db, cost: bcryptCost}
}

// CreateUser validates the password against the credential policy, hashes
// it and inserts the user with a fresh security stamp.  On success the
// user's ID, PasswordHash and SecurityStamp fields are populated.
func (r *UserRepo) CreateUser(ctx context.Context, u *model.User, password string) ([]model.ValidationError, error) {
	if verrs := validatePassword(password); len(verrs) > 0 {
		return verrs, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)
	u.SecurityStamp = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	const q = `INSERT INTO users (email, username, first_name, last_name, password_hash, security_stamp)
	           VALUES (?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		u.Email, u.UserName, u.FirstName, u.LastName, u.PasswordHash, u.SecurityStamp)
	if err != nil {
		// MySQL duplicate-key on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return []model.ValidationError{{
				Code:        "DuplicateEmail",
				Description: "email '" + u.Email + "' is already taken",
			}}, nil
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u.ID = uint64(id)
	return nil, nil
}

// FindByEmail fetches a user by normalized email.  A missing user is
// reported as ErrNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// FindByUsername fetches a user by username.  Usernames are set to the
// email at registration, so this is the lookup the refresh flow uses for
// the token's subject claim.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *UserRepo) findBy(ctx context.Context, column, value string) (*model.User, error) {
	q := "SELECT id, email, username, first_name, last_name, password_hash, security_stamp, created_at, updated_at " +
		"FROM users WHERE " + column + " = ? LIMIT 1"
	var u model.User
	err := r.db.QueryRowContext(ctx, q, value).Scan(
		&u.ID, &u.Email, &u.UserName, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.SecurityStamp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CheckPassword compares the stored bcrypt hash against a candidate.
func (r *UserRepo) CheckPassword(u *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// AddToRole grants a role to a user.  Granting an already-held role is a
// no-op thanks to the (user_id, role) primary key.
func (r *UserRepo) AddToRole(ctx context.Context, u *model.User, role string) error {
	const q = "INSERT IGNORE INTO user_roles (user_id, role) VALUES (?,?)"
	_, err := r.db.ExecContext(ctx, q, u.ID, role)
	return err
}

// GetRoles returns the user's role names ordered by grant time.
func (r *UserRepo) GetRoles(ctx context.Context, u *model.User) ([]string, error) {
	const q = "SELECT role FROM user_roles WHERE user_id = ? ORDER BY granted_at, role"
	rows, err := r.db.QueryContext(ctx, q, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// GetClaims returns the user's stored identity claims in insertion order.
func (r *UserRepo) GetClaims(ctx context.Context, u *model.User) ([]model.Claim, error) {
	const q = "SELECT claim_type, claim_value FROM user_claims WHERE user_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Claim
	for rows.Next() {
		var c model.Claim
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// validatePassword applies the credential policy: at least six characters
// with an upper-case letter, a lower-case letter, a digit and a
// non-alphanumeric character.  Every violated rule yields its own entry so
// clients can show the full list at once.
func validatePassword(password string) []model.ValidationError {
	var verrs []model.ValidationError
	if len(password) < 6 {
		verrs = append(verrs, model.ValidationError{
			Code: "PasswordTooShort", Description: "passwords must be at least 6 characters",
		})
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper {
		verrs = append(verrs, model.ValidationError{
			Code: "PasswordRequiresUpper", Description: "passwords must have at least one uppercase letter",
		})
	}
	if !hasLower {
		verrs = append(verrs, model.ValidationError{
			Code: "PasswordRequiresLower", Description: "passwords must have at least one lowercase letter",
		})
	}
	if !hasDigit {
		verrs = append(verrs, model.ValidationError{
			Code: "PasswordRequiresDigit", Description: "passwords must have at least one digit",
		})
	}
	if !hasSymbol {
		verrs = append(verrs, model.ValidationError{
			Code: "PasswordRequiresNonAlphanumeric", Description: "passwords must have at least one non-alphanumeric character",
		})
	}
	return verrs
}
