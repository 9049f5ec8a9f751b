package eventbus

import (
	"context"

	"github.com/annel0/world-editor/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в стандартный лог.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		switch ev.EventType {
		case TypeSchematicFailed:
			var p SchematicFailed
			if err := ev.Decode(&p); err == nil {
				logging.Warn("[EventBus] %s импорт %q не удался (%s): %s", ev.ID, p.Name, p.Reason, p.Error)
				return
			}
		case TypeSchematicImported:
			var p SchematicImported
			if err := ev.Decode(&p); err == nil {
				logging.Debug("[EventBus] %s импортирована %q %dx%dx%d cached=%v", ev.ID, p.Name, p.Width, p.Height, p.Length, p.Cached)
				return
			}
		}
		logging.Debug("[EventBus] %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logging.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
