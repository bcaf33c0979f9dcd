package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the transport layer can pick a status
// code without inspecting messages.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation_error"
	KindConflict        ErrorKind = "conflict"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindInvalidPayload  ErrorKind = "invalid_payload"
	KindInternal        ErrorKind = "internal"
)

// Sentinels usable with errors.Is
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidPayload  = errors.New("invalid scan payload")
	ErrInternal        = errors.New("internal error")
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:      ErrValidation,
	KindConflict:        ErrConflict,
	KindUnauthenticated: ErrUnauthenticated,
	KindForbidden:       ErrForbidden,
	KindNotFound:        ErrNotFound,
	KindInvalidPayload:  ErrInvalidPayload,
	KindInternal:        ErrInternal,
}

// User-facing messages (pt-PT)
const (
	MsgStudentRequiredFields = "Nome e email institucional são obrigatórios"
	MsgInvalidLinkedin       = "LinkedIn inválido"
	MsgCVMustBePDF           = "O CV deve estar em PDF"
	MsgCVTooLarge            = "Upload inválido (tamanho máximo: 4MB)"
	MsgInvalidUpload         = "Upload inválido"
	MsgProfileNotFound       = "Perfil não encontrado"
	MsgCVNotFound            = "CV não encontrado"
	MsgInvalidAccess         = "Acesso inválido"
	MsgNotAuthenticated      = "Não autenticado"
	MsgInvalidCompanyLogin   = "Login de empresa inválido"
	MsgInvalidCredentials    = "Credenciais inválidas"
	MsgInvalidCompanyData    = "Dados inválidos"
	MsgCompanyExists         = "Empresa já existe"
	MsgCompanyNotFound       = "Empresa não encontrada"
	MsgNotAuthorized         = "Não autorizado"
	MsgInvalidQR             = "QR inválido para este evento"
	MsgInternal              = "Erro interno"
	MsgScanRecorded          = "Leitura registada"
	MsgRemovedCompany        = "Empresa removida"
)

// Error carries a kind, a message safe to show the caller and an optional
// cause that is only ever logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so
// errors.Is(NewNotFound("x"), ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func NewValidation(message string) *Error {
	return newError(KindValidation, message, nil)
}

func NewConflict(message string, cause error) *Error {
	return newError(KindConflict, message, cause)
}

// NewUnauthenticated uses MsgNotAuthenticated when message is empty
func NewUnauthenticated(message string, cause error) *Error {
	if message == "" {
		message = MsgNotAuthenticated
	}
	return newError(KindUnauthenticated, message, cause)
}

func NewForbidden(message string) *Error {
	return newError(KindForbidden, message, nil)
}

func NewNotFound(message string) *Error {
	return newError(KindNotFound, message, nil)
}

func NewInvalidPayload(cause error) *Error {
	return newError(KindInvalidPayload, MsgInvalidQR, cause)
}

func NewInternal(cause error) *Error {
	return newError(KindInternal, MsgInternal, cause)
}

// KindOf returns the kind of err, defaulting to KindInternal for anything
// that is not a *Error.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return MsgInternal
}
