package dto

import (
	"time"

	"github.com/roland-adams2007/CreatorSpaceBackend/internal/auth/domain"
)

type UserOutput struct {
	UUID  string `json:"uuid"`
	Fname string `json:"fname"`
	Lname string `json:"lname"`
	Email string `json:"email"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		UUID:  u.UUID,
		Fname: u.Fname,
		Lname: u.Lname,
		Email: u.Email,
	}
}

// LoginResult carries everything the handler needs to answer a successful
// login: the response body fields plus the cookie material.
type LoginResult struct {
	AccessToken     string
	RefreshTokenRaw string
	SessionID       string
	ExpiresAt       time.Time
	User            UserOutput
}

// AuthContext is the outcome of a successful token validation. NewAccessToken
// is non-empty only when the request was authenticated via transparent
// refresh.
type AuthContext struct {
	User           *domain.User
	SessionID      string
	NewAccessToken string
}
