package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogSeatsLocked logs a successful seat lock acquisition
func (l *Logger) LogSeatsLocked(ctx context.Context, eventID, userID string, seatCount int, expiry time.Time) {
	l.Logger.InfoContext(ctx,
		"Seats Locked",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
		slog.Int("seat_count", seatCount),
		slog.Time("lock_expiry", expiry),
	)
}

// LogBookingConfirmed logs when a booking is confirmed
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingCode, eventID, userID string, amount float64) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("booking_code", bookingCode),
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
		slog.Float64("total_amount", amount),
	)
}

// LogBookingCancelled logs when a booking is cancelled
func (l *Logger) LogBookingCancelled(ctx context.Context, bookingCode, userID string, byAdmin bool) {
	l.Logger.InfoContext(ctx,
		"Booking Cancelled",
		slog.String("booking_code", bookingCode),
		slog.String("user_id", userID),
		slog.Bool("by_admin", byAdmin),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, email, reason string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("email", email),
		slog.String("reason", reason),
	)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
