package engine

import (
	"errors"

	"github.com/madaris/daftar/internal/engine/catalog"
	"github.com/madaris/daftar/internal/render"
)

// ErrorKind classifies dispatcher failures by kind, not by Go error type.
type ErrorKind string

const (
	KindUnknownTemplate  ErrorKind = "unknown_template"
	KindMalformedPayload ErrorKind = "malformed_payload"
	KindRenderIO         ErrorKind = "render_io"
	KindPrintFailed      ErrorKind = "print_failed"
	KindInternal         ErrorKind = "internal"
)

// User-visible messages are short Arabic strings from a fixed catalog; raw
// error text never reaches the GUI.
var userMessages = map[ErrorKind]string{
	KindUnknownTemplate:  "نوع التقرير غير معروف",
	KindMalformedPayload: "بيانات الطباعة غير مكتملة",
	KindRenderIO:         "تعذر إنشاء ملف الطباعة",
	KindPrintFailed:      "فشلت عملية الطباعة",
	KindInternal:         "حدث خطأ غير متوقع أثناء الطباعة",
}

// Error is the structured failure carried inside a failed Outcome.
type Error struct {
	Kind ErrorKind
	// Key names the offending payload key for KindMalformedPayload.
	Key    string
	Detail string
}

func (e *Error) Error() string {
	if e.Key != "" {
		return string(e.Kind) + ": " + e.Key
	}
	if e.Detail != "" {
		return string(e.Kind) + ": " + e.Detail
	}
	return string(e.Kind)
}

// UserMessage returns the fixed Arabic message for the error kind.
func (e *Error) UserMessage() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return msg
	}
	return userMessages[KindInternal]
}

// classify maps renderer/catalog errors onto the taxonomy.
func classify(err error) *Error {
	switch {
	case errors.Is(err, catalog.ErrUnknownTemplate):
		return &Error{Kind: KindUnknownTemplate, Detail: err.Error()}
	case errors.Is(err, render.ErrMalformedPayload):
		var mp *render.MalformedPayloadError
		if errors.As(err, &mp) {
			return &Error{Kind: KindMalformedPayload, Key: mp.Key}
		}
		return &Error{Kind: KindMalformedPayload, Detail: err.Error()}
	case errors.Is(err, render.ErrRenderIO):
		return &Error{Kind: KindRenderIO, Detail: err.Error()}
	default:
		return &Error{Kind: KindInternal, Detail: err.Error()}
	}
}
