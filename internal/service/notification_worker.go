package service

import (
	"encoding/json"
	"log"

	"devhoc/internal/util"
)

// NotificationWorker consumes notification events from RabbitMQ and hands
// them to the notification service for persistence and websocket push.
type NotificationWorker struct {
	rabbit              *util.RabbitMQClient
	notificationService NotificationService
}

func NewNotificationWorker(rabbit *util.RabbitMQClient, notificationService NotificationService) *NotificationWorker {
	return &NotificationWorker{
		rabbit:              rabbit,
		notificationService: notificationService,
	}
}

// Start begins consuming in a background goroutine. Safe to call with a nil
// broker; the service then delivers inline and the worker is a no-op.
func (w *NotificationWorker) Start() {
	if w.rabbit == nil {
		log.Println("RabbitMQ not configured, notification worker disabled")
		return
	}

	msgs, err := w.rabbit.GetChannel().Consume(
		notificationQueue,
		"notification-worker",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("Notification worker failed to consume: %v", err)
		return
	}

	go func() {
		log.Println("Notification worker started")
		for msg := range msgs {
			var event NotificationEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				log.Printf("Notification worker: bad payload: %v", err)
				msg.Nack(false, false)
				continue
			}

			if err := w.notificationService.Deliver(event); err != nil {
				log.Printf("Notification worker: delivery failed: %v", err)
				// Requeue once; the broker drops it on the second failure
				msg.Nack(false, !msg.Redelivered)
				continue
			}

			msg.Ack(false)
		}
		log.Println("Notification worker stopped")
	}()
}
