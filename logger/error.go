package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// AnnotateError attaches slog key-value pairs to an error. When the returned
// error is logged through a handler installed by this package, the attached
// attributes are lifted out of the error and into the log record, so context
// captured where the error arose survives wrapping and shows up where the
// error is finally logged.
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "", 0)
	r.Add(args...)

	var errAttrs []slog.Attr

	r.Attrs(func(attr slog.Attr) bool {
		errAttrs = append(errAttrs, attr)

		return true
	})

	return &annotatedError{
		err:   err,
		attrs: errAttrs,
	}
}

// annotatedError wraps an error with structured logging attributes. It
// supports unwrapping, so errors.Is and errors.As see through it.
type annotatedError struct {
	err   error
	attrs []slog.Attr
}

func (s *annotatedError) Error() string {
	return s.err.Error()
}

func (s *annotatedError) Unwrap() error {
	return s.err
}

var _ error = (*annotatedError)(nil)

// annotatedErrorHandler is a slog.Handler decorator that spots annotated
// errors among a record's attributes, replaces them with the underlying
// error, and appends the embedded attributes to the record. All actual
// logging is delegated to the wrapped handler.
type annotatedErrorHandler struct {
	inner slog.Handler
}

var _ slog.Handler = (*annotatedErrorHandler)(nil)

func (s *annotatedErrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.inner.Enabled(ctx, level)
}

func (s *annotatedErrorHandler) Handle(ctx context.Context, record slog.Record) error {
	var (
		baseAttrs []slog.Attr
		errAttrs  []slog.Attr
	)

	record.Attrs(func(attr slog.Attr) bool {
		val := attr.Value.Any()

		switch v := val.(type) {
		case error:
			var ae *annotatedError

			if errors.As(v, &ae) {
				errAttr := slog.Attr{
					Key:   attr.Key,
					Value: slog.AnyValue(ae.err),
				}

				baseAttrs = append(baseAttrs, errAttr)

				errAttrs = append(errAttrs, ae.attrs...)
			} else {
				baseAttrs = append(baseAttrs, attr)
			}
		default:
			baseAttrs = append(baseAttrs, attr)
		}

		return true
	})

	if len(errAttrs) > 0 {
		r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		r.AddAttrs(baseAttrs...)
		r.AddAttrs(errAttrs...)

		return s.inner.Handle(ctx, r)
	}

	return s.inner.Handle(ctx, record)
}

func (s *annotatedErrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &annotatedErrorHandler{
		inner: s.inner.WithAttrs(attrs),
	}
}

func (s *annotatedErrorHandler) WithGroup(name string) slog.Handler {
	return &annotatedErrorHandler{
		inner: s.inner.WithGroup(name),
	}
}
