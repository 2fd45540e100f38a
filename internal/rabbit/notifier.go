package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Message is the wire format of a reminder handed off to the delivery
// worker.
type Message struct {
	Recipient int64     `json:"recipient"`
	Text      string    `json:"text"`
	QueuedAt  time.Time `json:"queuedAt"`
}

// Notifier publishes reminders to the queue instead of delivering them
// directly; a separate sender process consumes and delivers them.
type Notifier struct {
	provider *Provider
}

func NewNotifier(provider *Provider) *Notifier {
	return &Notifier{provider: provider}
}

func (n *Notifier) Notify(_ context.Context, recipient int64, text string) error {
	data, err := json.Marshal(Message{
		Recipient: recipient,
		Text:      text,
		QueuedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}
	if err := n.provider.Publish(data); err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}
	return nil
}
