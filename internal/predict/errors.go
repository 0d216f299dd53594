package predict

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Messages shown when the service gives no usable explanation.
const (
	MsgStatusFallback  = "Failed to analyze sentiment. Make sure the backend is running."
	MsgGenericFallback = "Something went wrong while contacting the server."
)

// ErrKind classifies how a request failed.
type ErrKind int

const (
	KindTransport ErrKind = iota // connection, timeout, unreadable body
	KindStatus                   // non-2xx response
	KindDecode                   // 2xx response that is not valid JSON
)

// String returns a short name for the kind.
func (k ErrKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// RequestError is returned for every failed call to the service.
type RequestError struct {
	Kind       ErrKind
	Op         string // e.g. "POST /predict"
	StatusCode int
	Message    string // server-provided text, when there was one
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch e.Kind {
	case KindStatus:
		fmt.Fprintf(&b, "status %d", e.StatusCode)
		if e.Message != "" {
			b.WriteString(": ")
			b.WriteString(e.Message)
		}
	default:
		b.WriteString(e.Kind.String())
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	}
	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

// UserMessage is the text to show a person for this failure.
func (e *RequestError) UserMessage() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return e.Message
		}
		return MsgStatusFallback
	default:
		if e.Err != nil && e.Err.Error() != "" {
			return e.Err.Error()
		}
		return MsgGenericFallback
	}
}

// UserMessage returns the user-facing text for any error coming out of the
// client. Errors that are not a *RequestError use their own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.UserMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgGenericFallback
}

// serverMessage pulls a FastAPI-style explanation out of an error body.
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	doc := gjson.ParseBytes(body)
	for _, field := range []string{"detail", "error", "message"} {
		if v := doc.Get(field); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return strings.TrimSpace(v.Str)
		}
	}
	return ""
}
