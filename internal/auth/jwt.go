package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrUnexpectedMethod = errors.New("unexpected signing method")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens. AccountType rides
// in the token so the admin gate never needs a user lookup per request.
type Claims struct {
	UserID      string `json:"sub"`
	Email       string `json:"email"`
	AccountType string `json:"accountType"`
	TokenType   string `json:"typ"`
	JTI         string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens with a single shared secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *Manager) sign(userID, email, accountType, tokenType, jti string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID:      userID,
		Email:       email,
		AccountType: accountType,
		TokenType:   tokenType,
		JTI:         jti,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   userID,
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)

	return raw, expiresAt, err
}

func (m *Manager) GenerateAccessToken(userID, email, accountType string) (string, error) {
	raw, _, err := m.sign(userID, email, accountType, tokenTypeAccess, uuid.NewString(), m.accessTTL)
	return raw, err
}

// GenerateRefreshToken returns the signed token along with its jti and
// expiry; the caller persists the jti row and an HMAC of the raw token.
func (m *Manager) GenerateRefreshToken(userID, email, accountType string) (raw string, jti string, expiresAt time.Time, err error) {
	jti = uuid.NewString()
	raw, expiresAt, err = m.sign(userID, email, accountType, tokenTypeRefresh, jti, m.refreshTTL)
	return raw, jti, expiresAt, err
}

func (m *Manager) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedMethod
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	claims, err := m.parse(tokenStr)

	if err != nil {
		return nil, err
	}

	if claims.TokenType != tokenTypeAccess {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

func (m *Manager) VerifyRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := m.parse(tokenStr)

	if err != nil {
		return nil, err
	}

	if claims.TokenType != tokenTypeRefresh || claims.JTI == "" {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// HashRefreshToken is the deterministic HMAC-SHA256 of a raw refresh token,
// keyed by the signing secret. Only this hash is stored.
func (m *Manager) HashRefreshToken(raw string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
