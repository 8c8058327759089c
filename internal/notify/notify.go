// Package notify доставляет пользователю короткие уведомления о действиях
// (добавление в корзину, оформление заказа, ошибки админки).
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notification уведомление; пустой Session: для всех
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	Session string    `json:"session,omitempty"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

func Success(ctx context.Context, n Notifier, session, msg string) {
	send(ctx, n, Notification{Level: LevelSuccess, Message: msg, Session: session})
}

func Info(ctx context.Context, n Notifier, session, msg string) {
	send(ctx, n, Notification{Level: LevelInfo, Message: msg, Session: session})
}

func Error(ctx context.Context, n Notifier, session, title, msg string) {
	send(ctx, n, Notification{Level: LevelError, Title: title, Message: msg, Session: session})
}

func send(ctx context.Context, n Notifier, msg Notification) {
	if n == nil {
		return
	}
	msg.At = time.Now().UTC()
	n.Notify(ctx, msg)
}

// Fanout рассылает уведомление всем получателям по очереди
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, t := range f {
		t.Notify(ctx, n)
	}
}

// Log пишет уведомления в журнал
type Log struct{ Logger *slog.Logger }

func (l Log) Notify(ctx context.Context, n Notification) {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	l.Logger.Log(ctx, level, "notification", "level", n.Level, "session", n.Session, "message", n.Message)
}

// Recorder запоминает уведомления; используется в тестах
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last последнее уведомление или нулевое значение
func (r *Recorder) Last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}
