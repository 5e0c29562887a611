package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgError
	MsgKey
	MsgEvalResult
)

// ErrCode is a generic error category for MsgError payloads.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrOverflow
	ErrSyntax
	ErrUnknownName
	ErrArity
	ErrDomain
	ErrInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown"
	case ErrBadMessage:
		return "bad_message"
	case ErrOverflow:
		return "overflow"
	case ErrSyntax:
		return "syntax"
	case ErrUnknownName:
		return "unknown_name"
	case ErrArity:
		return "arity"
	case ErrDomain:
		return "domain"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgError:
		return "error"
	case MsgKey:
		return "key"
	case MsgEvalResult:
		return "eval_result"
	default:
		return "unknown"
	}
}
