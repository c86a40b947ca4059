package code

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an error code so transports can map it onto their own status space.
// Kind 错误分类，传输层据此映射状态码
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindTooManyRequests
	KindTransient
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	case KindTransient:
		return "transient"
	case KindInternal:
		return "internal"
	}
	return "none"
}

type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 分类
	kind Kind
	// http 状态码覆盖
	httpStatus int
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 字段错误
	fields map[string]string
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code. Codes are unique per process.
// NewError 注册错误码，进程内唯一
func NewError(code int, kind Kind, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	return &Code{code: code, status: false, kind: kind, Lang: l}
}

func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	return &Code{code: code, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本，共享的错误码必须先 Clone 再附加数据
func (e *Code) Clone() *Code {
	return &Code{
		code:       e.code,
		status:     e.status,
		kind:       e.kind,
		httpStatus: e.httpStatus,
		Lang:       e.Lang,
		details:    []string{},
	}
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return e.Msg() + ": " + strings.Join(e.details, ", ")
	}
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Kind() Kind {
	return e.kind
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

// Fields returns the field-keyed validation messages, nil when none were attached.
func (e *Code) Fields() map[string]string {
	return e.fields
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	e.haveData = true
	e.data = data
	return e
}

func (e *Code) WithDetails(details ...string) *Code {
	e.haveDetails = true
	e.details = []string{}

	e.details = append(e.details, details...)

	return e
}

// WithField attaches a field-keyed message; the message also becomes a detail line.
// WithField 附加字段错误，同时写入 details
func (e *Code) WithField(field, message string) *Code {
	if e.fields == nil {
		e.fields = map[string]string{}
	}
	e.fields[field] = message

	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.details = e.details[:0]
	for _, k := range keys {
		e.details = append(e.details, e.fields[k])
	}
	e.haveDetails = true
	e.haveData = true
	e.data = e.fields
	return e
}

// WithHTTPStatus overrides the status derived from the kind.
func (e *Code) WithHTTPStatus(status int) *Code {
	e.httpStatus = status
	return e
}

func (e *Code) StatusCode() int {
	if e.httpStatus != 0 {
		return e.httpStatus
	}
	if e.status {
		return http.StatusOK
	}
	switch e.kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindTransient, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// Is reports whether err carries the same result code as target.
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code && t.status == e.status
}

// MsgIn returns the message in the given language.
func (e *Code) MsgIn(language string) string {
	return e.Lang.Get(language)
}
