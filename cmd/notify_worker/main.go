package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/krida-hq/krida-backend/config"
	"github.com/krida-hq/krida-backend/internal/application"
	pginfra "github.com/krida-hq/krida-backend/internal/infrastructure/postgres"
	"github.com/krida-hq/krida-backend/pkg/mailer"
)

// notify_worker consumes achievement decision events and emails the owning
// player the outcome.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; notify worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	users := pginfra.NewUserRepository(pool)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQNotifyQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQNotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev application.DecisionEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			owner, err := users.GetByID(ctx, ev.OwnerID)
			if err != nil {
				log.Printf("owner lookup failed for %s: %v", ev.OwnerID, err)
				_ = msg.Nack(false, false)
				continue
			}

			subject, text := renderDecision(&ev)
			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := mg.Send(c, owner.Email, subject, text, ""); err != nil {
				cancel()
				log.Printf("send failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("notify worker listening on queue=%s", cfg.RabbitMQNotifyQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func renderDecision(ev *application.DecisionEvent) (subject, text string) {
	switch ev.Decision {
	case "APPROVED":
		subject = fmt.Sprintf("Your achievement %q was approved", ev.Title)
		text = fmt.Sprintf("Good news! Coach %s approved your achievement %q on %s.",
			ev.CoachName, ev.Title, ev.DecidedAt.Format("2 Jan 2006"))
	default:
		subject = fmt.Sprintf("Your achievement %q was rejected", ev.Title)
		text = fmt.Sprintf("Coach %s rejected your achievement %q on %s.",
			ev.CoachName, ev.Title, ev.DecidedAt.Format("2 Jan 2006"))
		if ev.Reason != "" {
			text += fmt.Sprintf(" Reason: %s", ev.Reason)
		}
		text += " You can edit the record and ask for another review."
	}
	return subject, text
}
