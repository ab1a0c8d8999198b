package response

import "net/http"

// Code 对外暴露的固定业务错误码
type Code string

const (
	CodeDuplicatedEmail      Code = "DUPLICATED_EMAIL"
	CodeDuplicatedNickname   Code = "DUPLICATED_NICKNAME"
	CodePasswordsNotMatched  Code = "PASSWORDS_NOT_MATCHED"
	CodeUserNotFound         Code = "USER_NOT_FOUND"
	CodeInvalidUser          Code = "INVALID_USER"
	CodeInvalidToken         Code = "INVALID_TOKEN"
	CodeTokenNotFound        Code = "TOKEN_NOT_FOUND"
	CodeNotLoginState        Code = "NOT_LOGIN_STATE"
	CodeNumberNotMatched     Code = "NUMBER_NOT_MATCHED"
	CodeCertificationMissing Code = "CERTIFICATION_NOT_FOUND"
	CodePostNotFound         Code = "POST_NOT_FOUND"
	CodeNotificationNotFound Code = "NOTIFICATION_NOT_FOUND"
	CodeBadRequest           Code = "BAD_REQUEST"
	CodeInternalError        Code = "INTERNAL_SERVER_ERROR"
)

// CodeError 业务失败：区别于不可预期的内部错误
type CodeError struct {
	Code    Code
	Message string
	Status  int
}

func (e *CodeError) Error() string { return string(e.Code) + ": " + e.Message }

func newCodeError(code Code, status int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg, Status: status}
}

var (
	ErrDuplicatedEmail      = newCodeError(CodeDuplicatedEmail, http.StatusConflict, "email already in use")
	ErrDuplicatedNickname   = newCodeError(CodeDuplicatedNickname, http.StatusConflict, "nickname already in use")
	ErrPasswordsNotMatched  = newCodeError(CodePasswordsNotMatched, http.StatusBadRequest, "passwords do not match")
	ErrUserNotFound         = newCodeError(CodeUserNotFound, http.StatusNotFound, "user not found")
	ErrInvalidUser          = newCodeError(CodeInvalidUser, http.StatusUnauthorized, "invalid email or password")
	ErrInvalidToken         = newCodeError(CodeInvalidToken, http.StatusUnauthorized, "invalid or expired token")
	ErrTokenNotFound        = newCodeError(CodeTokenNotFound, http.StatusNotFound, "refresh token not found")
	ErrNotLoginState        = newCodeError(CodeNotLoginState, http.StatusUnauthorized, "not in login state")
	ErrNumberNotMatched     = newCodeError(CodeNumberNotMatched, http.StatusBadRequest, "certification number does not match")
	ErrCertificationMissing = newCodeError(CodeCertificationMissing, http.StatusNotFound, "no certification requested for this email")
	ErrPostNotFound         = newCodeError(CodePostNotFound, http.StatusNotFound, "post not found")
	ErrNotificationNotFound = newCodeError(CodeNotificationNotFound, http.StatusNotFound, "notification not found")
)
