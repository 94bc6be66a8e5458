package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
	"github.com/magabrotheeeer/gym-tracker/internal/events"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
)

var (
	amqpURL   string
	exchange  string
	queueName string
	workers   int
)

// eventsCmd объединяет команды для потока событий о пользователях.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect user lifecycle events published to RabbitMQ",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print user events from the audit queue until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := rabbitSettings()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return tailEvents(ctx, cmd.OutOrStdout(), cfg, sl.New(sl.EnvLocal, cmd.ErrOrStderr()))
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)

	eventsTailCmd.Flags().StringVar(&amqpURL, "amqp-url", "", "RabbitMQ URL (overrides config)")
	eventsTailCmd.Flags().StringVar(&exchange, "exchange", "", "Events exchange (overrides config)")
	eventsTailCmd.Flags().StringVar(&queueName, "queue", rabbitmq.UserEventQueues()[0].QueueName, "Queue to consume")
	eventsTailCmd.Flags().IntVar(&workers, "workers", 1, "Concurrent message handlers")
}

// rabbitSettings собирает настройки брокера: флаги важнее конфига.
func rabbitSettings() (config.RabbitMQ, error) {
	cfg := config.RabbitMQ{Exchange: "gym.events", Retries: 3, RetryDelay: time.Second}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.RabbitMQ{}, err
		}
		cfg = loaded.RabbitMQ
	}
	if amqpURL != "" {
		cfg.URL = amqpURL
	}
	if exchange != "" {
		cfg.Exchange = exchange
	}
	if cfg.URL == "" {
		return config.RabbitMQ{}, fmt.Errorf("rabbitmq url is not set: use --amqp-url or --config")
	}
	return cfg, nil
}

func tailEvents(ctx context.Context, out io.Writer, cfg config.RabbitMQ, log *slog.Logger) error {
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.UserEventQueues())
	if err != nil {
		return err
	}
	defer ch.Close()

	return rabbitmq.Consume(ctx, ch, queueName, workers, log, func(_ context.Context, body []byte) error {
		line, err := formatEvent(body)
		if err != nil {
			// Битые сообщения подтверждаются и в очередь не возвращаются.
			log.Warn("skip malformed event", sl.Err(err))
			return nil
		}
		_, err = fmt.Fprintln(out, line)
		return err
	})
}

func formatEvent(body []byte) (string, error) {
	var e events.UserEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return "", fmt.Errorf("decode event: %w", err)
	}
	line := fmt.Sprintf("%s %-12s user=%d", e.OccurredAt.UTC().Format(time.RFC3339), e.Event, e.UserID)
	if e.Email != "" {
		line += " email=" + e.Email
	}
	if e.SubscriptionType != "" {
		line += " subscription=" + string(e.SubscriptionType)
	}
	return line, nil
}
