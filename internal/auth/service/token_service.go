package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/constant"
)

// ErrAccessTokenExpired distinguishes a structurally valid but expired
// access token from an invalid one; only the former may fall through to the
// refresh path.
var ErrAccessTokenExpired = errors.New("access token expired")

type TokenGenerator interface {
	IssueAccessToken(user *domain.User, sessionID string) (string, error)
	VerifyAccessToken(tokenString string) (*AccessClaims, error)
	NewRefreshToken() (raw, hash string, expiresAt time.Time, err error)
	NewEmailToken() (raw, hash string, expiresAt time.Time, err error)
	HashToken(raw string) string
}

type TokenService struct {
	Secret             []byte
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	EmailTokenExpiry   time.Duration
}

// TokenUser is the user projection embedded in access-token claims.
type TokenUser struct {
	UUID  string `json:"uuid"`
	Fname string `json:"fname"`
	Lname string `json:"lname"`
	Email string `json:"email"`
}

type AccessClaims struct {
	jwt.RegisteredClaims
	User      TokenUser `json:"user"`
	SessionID string    `json:"session_id"`
}

func NewTokenService(secret string, accessExpiry, refreshExpiry, emailExpiry time.Duration) *TokenService {
	return &TokenService{
		Secret:             []byte(secret),
		AccessTokenExpiry:  accessExpiry,
		RefreshTokenExpiry: refreshExpiry,
		EmailTokenExpiry:   emailExpiry,
	}
}

// IssueAccessToken mints a stateless HS256 token bound to the session.
// Verification needs only the shared secret; session liveness is checked
// separately on every request.
func (ts *TokenService) IssueAccessToken(user *domain.User, sessionID string) (string, error) {
	now := time.Now()

	claims := AccessClaims{
		User: TokenUser{
			UUID:  user.UUID,
			Fname: user.Fname,
			Lname: user.Lname,
			Email: user.Email,
		},
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.Secret)
}

// VerifyAccessToken parses and validates the given access token string.
// An expired-but-otherwise-valid token returns the parsed claims together
// with ErrAccessTokenExpired; any other failure returns a nil claims.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, ErrAccessTokenExpired
		}
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.SessionID == "" || claims.User.UUID == "" {
		return nil, fmt.Errorf("invalid token payload")
	}

	return claims, nil
}

// NewRefreshToken returns a fresh opaque credential: the raw hex value goes
// to the client once, only the hash is ever stored.
func (ts *TokenService) NewRefreshToken() (string, string, time.Time, error) {
	raw, err := randomHex(constant.RefreshTokenBytes)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return raw, ts.HashToken(raw), time.Now().Add(ts.RefreshTokenExpiry), nil
}

// NewEmailToken has the same shape as NewRefreshToken with the email-token
// expiry.
func (ts *TokenService) NewEmailToken() (string, string, time.Time, error) {
	raw, err := randomHex(constant.EmailTokenBytes)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return raw, ts.HashToken(raw), time.Now().Add(ts.EmailTokenExpiry), nil
}

// HashToken derives the stored one-way form of an opaque token.
func (ts *TokenService) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
