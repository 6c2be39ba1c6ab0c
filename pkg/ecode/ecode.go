package ecode

import "fmt"

// 业务错误码

const (
	Success        = 0
	InternalErr    = 10001
	BindErr        = 10002
	RequireAuthErr = 10003

	SignalInvalidErr  = 20001
	SignalRejectedErr = 20002
	EngineBusyErr     = 20003
)

var messages = map[int]string{
	Success:        "OK",
	InternalErr:    "internal error",
	BindErr:        "invalid request payload",
	RequireAuthErr: "authentication required",

	SignalInvalidErr:  "invalid trade signal",
	SignalRejectedErr: "trade signal rejected",
	EngineBusyErr:     "a signal is already being processed",
}

// Err 携带错误码的业务错误
type Err struct {
	Code    int
	Message string
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

// New 创建指定错误码的错误，message为空时取默认文案
func New(code int, message string) *Err {
	if message == "" {
		message = messages[code]
	}
	return &Err{Code: code, Message: message}
}

// DecodeErr 解析错误为 (code, message)，nil 视为成功
func DecodeErr(err error) (int, string) {
	if err == nil {
		return Success, messages[Success]
	}
	if e, ok := err.(*Err); ok {
		return e.Code, e.Message
	}
	return InternalErr, err.Error()
}
