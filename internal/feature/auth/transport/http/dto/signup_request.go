// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq is the multipart form of POST /user/signup. The avatar file is read separately.
// Presence checks are left to the usecase so that its validation order decides the error.
type SignupReq struct {
	Email      string `form:"email"`
	Username   string `form:"username"`
	Password   string `form:"password"`
	Newsletter bool   `form:"newsletter"`
}
