package notify

import (
	"sync"

	"go.uber.org/zap"
)

// EmailSender delivers a single notification email.
type EmailSender interface {
	Send(to, message string) error
}

// Notification is one queued email.
type Notification struct {
	Email   string
	Message string
}

// Notifier dispatches notifications from a bounded queue on a background
// goroutine. Enqueue never blocks: when the queue is full the
// notification is dropped and logged. Delivery is advisory; failures are
// logged and never retried.
type Notifier struct {
	queue  chan Notification
	sender EmailSender
	log    *zap.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewNotifier creates a Notifier with the given queue capacity.
func NewNotifier(sender EmailSender, queueSize int, log *zap.Logger) *Notifier {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Notifier{
		queue:  make(chan Notification, queueSize),
		sender: sender,
		log:    log,
	}
}

// Start launches the consumer goroutine.
func (n *Notifier) Start() {
	n.wg.Add(1)
	go n.run()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for notification := range n.queue {
		if err := n.sender.Send(notification.Email, notification.Message); err != nil {
			n.log.Warn("notification delivery failed",
				zap.String("email", notification.Email),
				zap.Error(err),
			)
		}
	}
}

// Enqueue queues a notification without blocking. It reports whether the
// notification was accepted.
func (n *Notifier) Enqueue(email, message string) bool {
	select {
	case n.queue <- Notification{Email: email, Message: message}:
		return true
	default:
		n.log.Warn("notification queue full, dropping",
			zap.String("email", email),
		)
		return false
	}
}

// Close stops accepting notifications and drains the queue.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}
