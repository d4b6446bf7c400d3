// Package notify доставляет доменные события администраторам и внешним подписчикам.
// Ошибки доставки логируются и не возвращаются вызывающему.
package notify

import (
	"context"

	"github.com/Freeeeeet/community_scheduler/internal/model"
)

// Nop ничего не отправляет
type Nop struct{}

func (Nop) Notify(context.Context, model.Event) {}

// Notifier получатель доменных событий
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// Multi рассылает событие всем получателям по очереди
type Multi []Notifier

// NewMulti собирает получателей, пропуская nil
func NewMulti(targets ...Notifier) Multi {
	m := make(Multi, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			m = append(m, t)
		}
	}
	return m
}

func (m Multi) Notify(ctx context.Context, event model.Event) {
	for _, n := range m {
		n.Notify(ctx, event)
	}
}
