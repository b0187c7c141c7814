package models

import (
	"errors"
	"fmt"
)

// ErrorCode классифицирует ошибки конвейера экспорта.
type ErrorCode string

const (
	ErrCodeSnapshotUnreadable ErrorCode = "SNAPSHOT_UNREADABLE" // design store could not be read
	ErrCodeCaptureUnavailable ErrorCode = "CAPTURE_UNAVAILABLE" // no design surface matched
	ErrCodeCaptureFailed      ErrorCode = "CAPTURE_FAILED"      // surface found but could not be rasterized
	ErrCodeStructureParse     ErrorCode = "STRUCTURE_PARSE_ERROR"
	ErrCodeCodeGenParse       ErrorCode = "CODEGEN_PARSE_ERROR"
	ErrCodePackaging          ErrorCode = "PACKAGING_ERROR"
	ErrCodeMissingCredential  ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeModelRequest       ErrorCode = "MODEL_REQUEST_FAILED" // transport/API failure of a model call
)

// ExportError: структурированная ошибка стадии экспорта.
// Raw хранит сырой ответ модели для диагностики.
type ExportError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Raw     string    `json:"-"`
	Err     error     `json:"-"`
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is сравнивает по коду, поэтому errors.Is(err, ErrCaptureUnavailable) работает
// для любой ошибки с тем же кодом.
func (e *ExportError) Is(target error) bool {
	t, ok := target.(*ExportError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinel values for errors.Is.
var (
	ErrSnapshotUnreadable = &ExportError{Code: ErrCodeSnapshotUnreadable}
	ErrCaptureUnavailable = &ExportError{Code: ErrCodeCaptureUnavailable}
	ErrCaptureFailed      = &ExportError{Code: ErrCodeCaptureFailed}
	ErrStructureParse     = &ExportError{Code: ErrCodeStructureParse}
	ErrCodeGenParse       = &ExportError{Code: ErrCodeCodeGenParse}
	ErrPackaging          = &ExportError{Code: ErrCodePackaging}
	ErrMissingCredential  = &ExportError{Code: ErrCodeMissingCredential}
	ErrModelRequest       = &ExportError{Code: ErrCodeModelRequest}
)

func NewError(code ErrorCode, message string, err error) *ExportError {
	return &ExportError{Code: code, Message: message, Err: err}
}

// NewParseError создаёт ошибку разбора с приложенным сырым ответом модели.
func NewParseError(code ErrorCode, message, raw string, err error) *ExportError {
	return &ExportError{Code: code, Message: message, Raw: raw, Err: err}
}

// CodeOf возвращает код ошибки экспорта или пустую строку.
func CodeOf(err error) ErrorCode {
	var ee *ExportError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// RawOf возвращает сырой ответ модели, если он приложен к ошибке.
func RawOf(err error) string {
	var ee *ExportError
	if errors.As(err, &ee) {
		return ee.Raw
	}
	return ""
}
