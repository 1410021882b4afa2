package langflow

import (
	"errors"
	"fmt"
)

// Kind 网关失败类型
type Kind string

const (
	KindConfiguration     Kind = "configuration"
	KindTimeout           Kind = "timeout"
	KindConnection        Kind = "connection"
	KindAuthentication    Kind = "authentication"
	KindNotFound          Kind = "not_found"
	KindServer            Kind = "server"
	KindUnexpectedStatus  Kind = "unexpected_status"
	KindMalformedResponse Kind = "malformed_response"
)

// 面向用户的提示信息，调用方直接展示给终端用户
const (
	MsgConfiguration     = "The chat service is not configured. Please contact the administrator."
	MsgTimeout           = "The request timed out. Please try again."
	MsgConnection        = "Sorry, there was an error connecting to the API."
	MsgAuthentication    = "Authentication failed. Please check the application token."
	MsgNotFound          = "Endpoint not found. Please check the workflow and flow identifiers."
	MsgServer            = "The server encountered an internal error. Please try again later."
	MsgUnexpectedStatus  = "Unexpected response from the chat service (status %d)."
	MsgMalformedResponse = "Sorry, I could not process your request."
)

// 哨兵错误，配合 errors.Is 按类型判断
var (
	ErrConfiguration     = &Error{Kind: KindConfiguration}
	ErrTimeout           = &Error{Kind: KindTimeout}
	ErrConnection        = &Error{Kind: KindConnection}
	ErrAuthentication    = &Error{Kind: KindAuthentication}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrServer            = &Error{Kind: KindServer}
	ErrUnexpectedStatus  = &Error{Kind: KindUnexpectedStatus}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
)

// Error 网关调用失败的结果
type Error struct {
	Kind       Kind
	StatusCode int    // 仅 HTTP 状态类失败时有值
	Message    string // 可直接展示给用户
	Err        error  // 底层原因，不对用户展示
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "langflow: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类型即视为相等，便于 errors.Is(err, langflow.ErrTimeout)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Soft 服务端 500 属于可恢复的软失败
func (e *Error) Soft() bool {
	return e.Kind == KindServer
}

// KindOf 取出错误类型，非网关错误返回空字符串
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

// UserMessage 取出面向用户的提示信息，非网关错误使用通用提示
func UserMessage(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return MsgMalformedResponse
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func statusError(kind Kind, status int, msg string) *Error {
	return &Error{Kind: kind, StatusCode: status, Message: msg}
}
