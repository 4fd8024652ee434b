package tracing

import (
	"context"
	"log/slog"
	"os"
	"time"
)

const (
	ExecutionTime   = "exe_time"
	InnerError      = "inner_error"
	UserId          = "user_id"
	UserName        = "user_name"
	ChatType        = "chat_type"
	ChatId          = "chat_id"
	MessageId       = "message_id"
	MessageDate     = "message_date"
	CommandIssued   = "command_issued"
	CommandAction   = "command_action"
	TargetRef       = "target_ref"
	SurfaceId       = "surface_id"
	MenuNode        = "menu_node"
	SettingsOwner   = "settings_owner"
	SettingsKey     = "settings_key"
	FlowStage       = "flow_stage"
	CallbackPayload = "callback_payload"
	SqlQuery        = "sql_query"
	ProxyUrl        = "proxy_url"
	ProxyRes        = "proxy_res"
	OutsiderKind    = "outsider_kind"
	Scope           = "scope"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger() *Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger.InfoContext(ctx, "Initializing logger")
	return &Logger{log: logger, ctx: ctx}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
