package bootstrap

import (
	"context"

	"stayhub/internal/infra/events"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		fx.Annotate(
			NewKafkaPublisher,
			fx.As(new(commands.EventPublisher)),
		),
	),
)

func NewKafkaPublisher(lc fx.Lifecycle, cfg config.Config) *events.KafkaPublisher {
	publisher, cleanup := events.NewKafkaPublisher(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return publisher
}
