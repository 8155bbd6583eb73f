package domain

import "fmt"

// ErrorKind classifies why a probe failed.
type ErrorKind string

const (
	KindConfig    ErrorKind = "config"
	KindRequest   ErrorKind = "request"
	KindTransport ErrorKind = "transport"
	KindParse     ErrorKind = "parse"
	KindUnknown   ErrorKind = "unknown"
)

// KindOK is what Outcome.Kind reports for a success.
const KindOK = "ok"

func (k ErrorKind) IsValid() bool {
	switch k {
	case KindConfig, KindRequest, KindTransport, KindParse, KindUnknown:
		return true
	}
	return false
}

// ProbeError is the typed failure half of an Outcome.
// Status is only set for KindRequest.
type ProbeError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *ProbeError) Error() string {
	if e.Message == "" {
		return UnknownErrorMessage
	}
	return e.Message
}

func (e *ProbeError) Unwrap() error { return e.Err }

// NewConfigError reports a missing base URL.
func NewConfigError() *ProbeError {
	return &ProbeError{Kind: KindConfig, Message: ErrBaseURLNotSet.Error(), Err: ErrBaseURLNotSet}
}

// NewRequestError reports a response whose status is not ok.
func NewRequestError(status int) *ProbeError {
	return &ProbeError{Kind: KindRequest, Status: status, Message: fmt.Sprintf("Request failed: %d", status)}
}

// NewTransportError wraps a network failure, keeping its message verbatim.
func NewTransportError(err error) *ProbeError {
	return wrap(KindTransport, err)
}

// NewParseError wraps a JSON decoding failure, keeping its message verbatim.
func NewParseError(err error) *ProbeError {
	return wrap(KindParse, err)
}

func wrap(kind ErrorKind, err error) *ProbeError {
	if err == nil || err.Error() == "" {
		return &ProbeError{Kind: KindUnknown, Message: UnknownErrorMessage, Err: err}
	}
	return &ProbeError{Kind: kind, Message: err.Error(), Err: err}
}

// Outcome is the settled result of one ping: exactly one of Value or Err is
// meaningful. Value holds the pretty-printed JSON body.
type Outcome struct {
	Value string
	Err   *ProbeError
}

func Success(pretty string) Outcome { return Outcome{Value: pretty} }

func Failure(err *ProbeError) Outcome {
	if err == nil {
		err = &ProbeError{Kind: KindUnknown, Message: UnknownErrorMessage}
	}
	return Outcome{Err: err}
}

func (o Outcome) OK() bool { return o.Err == nil }

// Text is the string written into the view's result cell.
func (o Outcome) Text() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return o.Value
}

// Kind reports the outcome's classification, KindOK for a success.
func (o Outcome) Kind() string {
	if o.Err != nil {
		return string(o.Err.Kind)
	}
	return KindOK
}
