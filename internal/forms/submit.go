package forms

import (
	"context"
	"errors"
	"net/http"

	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

// AuthAPI is the part of the API client the auth forms use.
type AuthAPI interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
}

// SchoolAPI is the part of the API client the management forms use.
type SchoolAPI interface {
	CreateClass(ctx context.Context, body any) (*domain.Class, error)
	CreateMaterial(ctx context.Context, body any) (*domain.Material, error)
	CreateEvaluation(ctx context.Context, body any) (*domain.Evaluation, error)
	CreateGroup(ctx context.Context, body any) (*domain.Group, error)
	CreateCourse(ctx context.Context, body any) (*domain.Course, error)
	RecordAttendance(ctx context.Context, body any) (*domain.AttendanceRecord, error)
}

// User-facing messages.
const (
	MsgCheckFields     = "Revisa los campos marcados."
	MsgGeneric         = "No se pudo guardar. Inténtalo de nuevo."
	MsgBadCredentials  = "Correo o contraseña incorrectos."
	MsgRegisterFailed  = "No se pudo completar el registro."
	MsgNetwork         = "No se pudo conectar con el servidor."
	MsgSessionExpired  = "Tu sesión ha expirado. Inicia sesión nuevamente."
	MsgForbiddenAction = "No tienes permiso para realizar esta acción."
)

// SubmitError is returned by the Submit functions. Fields is set for local
// validation failures and for structured server rejections.
type SubmitError struct {
	Fields  FieldErrors
	Message string
	Status  int
	Err     error
}

func (e *SubmitError) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + " " + e.Fields.Error()
	}
	return e.Message
}

func (e *SubmitError) Unwrap() error { return e.Err }

// AsSubmitError unwraps err into a SubmitError.
func AsSubmitError(err error) (*SubmitError, bool) {
	var se *SubmitError
	ok := errors.As(err, &se)
	return se, ok
}

// serverError maps an API failure. generic is used when the server sent no
// field errors.
func serverError(err error, generic string) *SubmitError {
	var herr *client.HTTPError
	if !errors.As(err, &herr) {
		return &SubmitError{Message: MsgNetwork, Err: err}
	}
	se := &SubmitError{Status: herr.StatusCode, Err: err}
	if len(herr.Fields) > 0 {
		se.Fields = FieldErrors(herr.Fields)
		se.Message = MsgCheckFields
		return se
	}
	switch herr.StatusCode {
	case http.StatusUnauthorized:
		se.Message = MsgSessionExpired
	case http.StatusForbidden:
		se.Message = MsgForbiddenAction
	default:
		se.Message = generic
	}
	return se
}

func submit[F any, R any](ctx context.Context, form F, generic string, call func(context.Context, F) (R, error)) (R, error) {
	var zero R
	if fe := Validate(form); fe != nil {
		return zero, &SubmitError{Fields: fe, Message: MsgCheckFields}
	}
	res, err := call(ctx, form)
	if err != nil {
		return zero, serverError(err, generic)
	}
	return res, nil
}

// SubmitLogin validates the form and logs in.
func SubmitLogin(ctx context.Context, api AuthAPI, f LoginForm) (*client.AuthResponse, error) {
	f = f.normalized()
	res, err := submit(ctx, f, MsgGeneric, func(ctx context.Context, f LoginForm) (*client.AuthResponse, error) {
		return api.Login(ctx, f.Request())
	})
	if se, ok := AsSubmitError(err); ok && len(se.Fields) == 0 &&
		(se.Status == http.StatusUnauthorized || se.Status == http.StatusUnprocessableEntity) {
		se.Message = MsgBadCredentials
	}
	return res, err
}

// SubmitRegister validates the form and creates the account.
func SubmitRegister(ctx context.Context, api AuthAPI, f RegisterForm) (*client.AuthResponse, error) {
	return submit(ctx, f.normalized(), MsgRegisterFailed, func(ctx context.Context, f RegisterForm) (*client.AuthResponse, error) {
		return api.Register(ctx, f.Request())
	})
}

// SubmitClass validates the form and creates the class.
func SubmitClass(ctx context.Context, api SchoolAPI, f ClassForm) (*domain.Class, error) {
	return submit(ctx, f.normalized(), MsgGeneric, func(ctx context.Context, f ClassForm) (*domain.Class, error) {
		return api.CreateClass(ctx, f)
	})
}

// SubmitMaterial validates the form and uploads the material.
func SubmitMaterial(ctx context.Context, api SchoolAPI, f MaterialForm) (*domain.Material, error) {
	return submit(ctx, f.normalized(), MsgGeneric, func(ctx context.Context, f MaterialForm) (*domain.Material, error) {
		return api.CreateMaterial(ctx, f)
	})
}

// SubmitEvaluation validates the form and creates the evaluation.
func SubmitEvaluation(ctx context.Context, api SchoolAPI, f EvaluationForm) (*domain.Evaluation, error) {
	return submit(ctx, f.normalized(), MsgGeneric, func(ctx context.Context, f EvaluationForm) (*domain.Evaluation, error) {
		return api.CreateEvaluation(ctx, f)
	})
}

// SubmitGroup validates the form and creates the group.
func SubmitGroup(ctx context.Context, api SchoolAPI, f GroupForm) (*domain.Group, error) {
	return submit(ctx, f.normalized(), MsgGeneric, func(ctx context.Context, f GroupForm) (*domain.Group, error) {
		return api.CreateGroup(ctx, f)
	})
}

// SubmitCourse validates the form and creates the course.
func SubmitCourse(ctx context.Context, api SchoolAPI, f CourseForm) (*domain.Course, error) {
	return submit(ctx, f.normalized(), MsgGeneric, func(ctx context.Context, f CourseForm) (*domain.Course, error) {
		return api.CreateCourse(ctx, f)
	})
}

// SubmitAttendance validates the form and records attendance.
func SubmitAttendance(ctx context.Context, api SchoolAPI, f AttendanceForm) (*domain.AttendanceRecord, error) {
	return submit(ctx, f.normalized(), MsgGeneric, func(ctx context.Context, f AttendanceForm) (*domain.AttendanceRecord, error) {
		return api.RecordAttendance(ctx, f)
	})
}
