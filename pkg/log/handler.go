package log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	ferrors "github.com/YuminosukeSato/randomferns/pkg/errors"
)

// ErrorConfiguration is the error code of configuration errors.
const ErrorConfiguration = "CONFIGURATION"

// ErrorCode classifies err into one of the Error* codes, or "" for errors
// outside the four kinds.
func ErrorCode(err error) string {
	var nf *ferrors.NotFittedError
	var sm *ferrors.SchemaMismatchError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &nf):
		return ErrorNotFitted
	case errors.As(err, &sm):
		return ErrorSchemaMismatch
	case errors.Is(err, ferrors.ErrCapability):
		return ErrorCapability
	case errors.Is(err, ferrors.ErrComputation):
		return ErrorComputation
	case errors.Is(err, ferrors.ErrConfiguration):
		return ErrorConfiguration
	}
	return ""
}

// errorType は最も内側のエラーの型名（"CapabilityError" など）を返す
func errorType(err error) string {
	name := fmt.Sprintf("%T", errors.UnwrapAll(err))
	return name[strings.LastIndex(name, ".")+1:]
}

// ErrFmtHandler is a slog handler for the error stored under ErrAttrKey. It
// adds the cockroachdb stacktrace and, for classifier errors, the error code
// and type, so that records can be filtered by ErrorCodeKey.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with error annotation.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var logged error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		logged, _ = attr.Value.Any().(error)
		return false
	})
	if logged == nil {
		return eh.handler.Handle(ctx, r)
	}

	if code := ErrorCode(logged); code != "" {
		r.AddAttrs(slog.String(ErrorCodeKey, code), slog.String(ErrorTypeKey, errorType(logged)))
	}
	if stacktrace := extractStacktrace(logged); stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	if details := errors.GetSafeDetails(err).SafeDetails; len(details) > 0 {
		return details[0]
	}
	return ""
}
