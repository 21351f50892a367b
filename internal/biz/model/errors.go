package model

import "errors"

// ErrorKind 业务错误分类，传输层据此映射 HTTP 状态码
type ErrorKind int

const (
	// KindInternal 协作方异常（数据库、缓存等），对应 500
	KindInternal ErrorKind = iota
	// KindValidation 请求参数非法，对应 400
	KindValidation
	// KindNotFound 实体不存在，对应 404
	KindNotFound
	// KindConflict 唯一性冲突（按本系统约定对应 400 而非 409）
	KindConflict
	// KindUnauthenticated 凭证错误，对应 401
	KindUnauthenticated
)

// Error 携带分类的业务错误
type Error struct {
	kind    ErrorKind
	message string
}

func (e *Error) Error() string { return e.message }

// Kind 返回错误分类
func (e *Error) Kind() ErrorKind { return e.kind }

// NewError 创建业务错误
func NewError(kind ErrorKind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// KindOf 提取错误的分类，未分类的错误视为内部错误
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindInternal
}
