package dto

type RegisterInput struct {
	Fname     string `json:"fname"`
	Lname     string `json:"lname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}
