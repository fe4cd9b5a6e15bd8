package dto

// LoginReq is the body of POST /user/login, accepted as JSON or form data.
type LoginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}
