package dto

type VerifyInput struct {
	Token string `json:"token"`
}

type ResendVerificationInput struct {
	Email     string `json:"email"`
	IPAddress string `json:"-"`
}
