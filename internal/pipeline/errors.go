package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/af-corp/draftgen/internal/drafts"
	"github.com/af-corp/draftgen/internal/invoker"
	"github.com/af-corp/draftgen/internal/parser"
	"github.com/af-corp/draftgen/internal/validate"
)

// Kind classifies a pipeline failure for the caller.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindServiceUnavailable Kind = "ServiceUnavailable"
	KindParsing            Kind = "ParsingError"
	KindEmptyResult        Kind = "EmptyResult"
	KindUpstreamFatal      Kind = "UpstreamFatalError"
	KindInternal           Kind = "Internal"
)

// Caller-facing messages. Raw upstream text is never surfaced.
const (
	MsgUnavailable = "AI 서비스가 일시적으로 불안정합니다. 잠시 후 다시 시도해주세요."
	MsgQuota       = "API 사용량 한도에 도달했습니다. 잠시 후 다시 시도해주세요."
	MsgConfig      = "AI 서비스 설정에 문제가 있습니다. 관리자에게 문의해주세요."
	MsgParsing     = "AI 응답 처리 중 오류가 발생했습니다. 다시 시도해주세요."
	MsgUnexpected  = "원고 생성 중 예기치 못한 오류가 발생했습니다."
)

// Error is the only error type Generate returns.
type Error struct {
	Kind    Kind
	Message string
	// RetryAfter is set for ServiceUnavailable while the breaker cools down.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// classify maps a stage failure onto the taxonomy.
func classify(err error, breaker *invoker.CircuitBreaker) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		return &Error{Kind: KindValidation, Message: ve.Error(), Err: err}

	case errors.Is(err, invoker.ErrCircuitOpen):
		return &Error{Kind: KindServiceUnavailable, Message: MsgUnavailable, RetryAfter: retryAfter(breaker), Err: err}

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindServiceUnavailable, Message: MsgUnavailable, Err: err}

	case errors.Is(err, parser.ErrNoCandidates):
		return &Error{Kind: KindParsing, Message: MsgParsing, Err: err}

	case errors.Is(err, drafts.ErrEmptyResult):
		return &Error{Kind: KindEmptyResult, Message: MsgParsing, Err: err}
	}

	var re *invoker.RetryExhaustedError
	if errors.As(err, &re) {
		msg := MsgUnavailable
		if invoker.IsQuotaExhausted(err) {
			msg = MsgQuota
		}
		return &Error{Kind: KindServiceUnavailable, Message: msg, RetryAfter: retryAfter(breaker), Err: err}
	}

	var ue *invoker.UpstreamError
	if errors.As(err, &ue) {
		msg := MsgUnexpected
		switch {
		case invoker.IsQuotaExhausted(err):
			msg = MsgQuota
		case invoker.IsAuthFailure(err):
			msg = MsgConfig
		}
		return &Error{Kind: KindUpstreamFatal, Message: msg, Err: err}
	}

	return &Error{Kind: KindInternal, Message: MsgUnexpected, Err: err}
}

func retryAfter(breaker *invoker.CircuitBreaker) time.Duration {
	if breaker == nil {
		return 0
	}
	if d := breaker.Snapshot().CooldownRemaining; d > 0 {
		return d
	}
	return 0
}
