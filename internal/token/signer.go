// Package token builds and reads the signed access tokens handed out by the
// auth manager.  Tokens are compact HS256 JWTs; validity is purely a
// function of the signature and the embedded expiry, no server-side state
// is consulted.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/hotel-listing/internal/model"
)

// ErrMalformedToken is returned when a presented token cannot be decoded
// structurally.  Signature or expiry failures are reported separately by
// Verify.
var ErrMalformedToken = errors.New("malformed access token")

// RoleClaim is the claim type carrying assigned role names.
const RoleClaim = "role"

// Signer issues and parses access tokens with a process-wide symmetric key
// and fixed issuer/audience.  All fields are read-only after construction,
// so a single Signer is safe for concurrent use.
type Signer struct {
	secret   []byte
	issuer   string
	audience string
	duration time.Duration
}

// NewSigner builds a Signer.  durationMin is the token lifetime in minutes
// counted from the start of the current calendar day, not from issuance.
func NewSigner(secret, issuer, audience string, durationMin int) *Signer {
	return &Signer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		duration: time.Duration(durationMin) * time.Minute,
	}
}

// Issue signs an access token for the given subject email.  The claim set
// starts with the fixed claims (sub, jti, email), then the user's stored
// identity claims, then one role claim per assigned role, in that order.
// Repeated claim types are not collapsed; the second and later values of a
// type extend it into an array on the wire.  The jti claim is a fresh UUID
// on every call.
//
// The expiry is the start of the current day plus the configured duration,
// so a short duration can yield a token that is already near expiry when
// issued late in the day.  Callers relying on token lifetime must account
// for this.
func (s *Signer) Issue(email string, identityClaims []model.Claim, roles []string) (string, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	claims := jwt.MapClaims{
		"sub":   email,
		"jti":   uuid.NewString(),
		"email": email,
		"iss":   s.issuer,
		"aud":   s.audience,
		"exp":   dayStart.Add(s.duration).Unix(),
	}
	for _, c := range identityClaims {
		addClaim(claims, c.Type, c.Value)
	}
	for _, r := range roles {
		addClaim(claims, RoleClaim, r)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Subject decodes a token without verifying its signature or expiry and
// returns the subject claim.  It exists for the refresh flow, which only
// needs the token to locate a candidate user; the actual authorization
// decision there is the stored refresh-token match.  ErrMalformedToken is
// returned when the structure cannot be decoded or carries no subject.
func (s *Signer) Subject(raw string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", ErrMalformedToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrMalformedToken
	}
	return sub, nil
}

// Verify parses a token, checks the HMAC signature, expiry, issuer and
// audience, and returns the claim set.  Use this variant everywhere a
// trust decision rests on the token itself.
func (s *Signer) Verify(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// addClaim records a claim value, widening the entry into an ordered array
// when the type repeats.  This mirrors how repeated claims of one type
// serialize on the JWT wire.
func addClaim(claims jwt.MapClaims, typ, value string) {
	switch prev := claims[typ].(type) {
	case nil:
		claims[typ] = value
	case string:
		claims[typ] = []string{prev, value}
	case []string:
		claims[typ] = append(prev, value)
	}
}
