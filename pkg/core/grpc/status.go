package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	eulererr "github.com/msto63/euler/foundation/core/error"
)

// StatusCode maps an error code onto the closest gRPC status code
func StatusCode(code eulererr.Code) codes.Code {
	switch code {
	case eulererr.CodeNotFound:
		return codes.NotFound
	case eulererr.CodeInvalidInput, eulererr.CodeInvalidFormat,
		eulererr.CodeInvalidExpression, eulererr.CodeInvalidConfig:
		return codes.InvalidArgument
	case eulererr.CodeDomainError, eulererr.CodeUnsupportedOperation:
		return codes.FailedPrecondition
	case eulererr.CodeTimeout:
		return codes.DeadlineExceeded
	case eulererr.CodeServiceUnavailable, eulererr.CodeDatabaseError, eulererr.CodeConnectionFailed:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error. Errors that already carry
// a status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	msg := err.Error()
	if e, ok := eulererr.As(err); ok {
		msg = e.Message()
	}
	return status.Error(StatusCode(eulererr.GetCode(err)), msg)
}

// FromStatus converts a gRPC status error back into a coded error
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	code := eulererr.CodeInternal
	switch st.Code() {
	case codes.NotFound:
		code = eulererr.CodeNotFound
	case codes.InvalidArgument:
		code = eulererr.CodeInvalidInput
	case codes.FailedPrecondition:
		code = eulererr.CodeDomainError
	case codes.DeadlineExceeded:
		code = eulererr.CodeTimeout
	case codes.Unavailable:
		code = eulererr.CodeServiceUnavailable
	}
	return eulererr.New(st.Message()).
		WithCode(code).
		WithDetail("grpc_code", st.Code().String())
}
