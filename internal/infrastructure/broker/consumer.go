package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/pkg/helpers"
	"github.com/oksasatya/eventplanner/pkg/mailer"
)

// Outcome says how a delivery is settled.
type Outcome int

const (
	Ack Outcome = iota
	Retry
	Drop
)

// AttemptsHeader counts how many times a job has already been tried.
const AttemptsHeader = "x-attempts"

const defaultMaxAttempts = 5

// Republisher is the publishing half of *amqp.Channel.
type Republisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Delivery is the subset of amqp.Delivery the handler needs.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// EmailHandler turns queued EmailJobs into sent mail.
type EmailHandler struct {
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Timeout time.Duration

	// MaxAttempts caps sends per job, defaulting to 5.
	MaxAttempts int
	// RetryDelay is waited before a failed job goes back on the queue.
	RetryDelay time.Duration
}

func (h *EmailHandler) maxAttempts() int {
	if h.MaxAttempts > 0 {
		return h.MaxAttempts
	}
	return defaultMaxAttempts
}

// Handle decodes and delivers one message; attempt starts at 1. Undecodable or
// unrenderable jobs are dropped. Send failures are retried until the attempt
// cap, then dropped.
func (h *EmailHandler) Handle(ctx context.Context, body []byte, attempt int) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogWarn(h.Logger, "bad message", err, nil)
		return Drop
	}
	subject, text, html, err := mailer.Prepare(job)
	if err != nil {
		helpers.LogWarn(h.Logger, "render failed", err, logrus.Fields{"template": job.Template})
		return Drop
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := h.Sender.Send(c, job.To, subject, text, html); err != nil {
		fields := logrus.Fields{"template": job.Template, "attempt": attempt}
		if attempt >= h.maxAttempts() {
			helpers.LogError(h.Logger, "send failed, giving up", err, fields)
			return Drop
		}
		helpers.LogWarn(h.Logger, "send failed, will retry", err, fields)
		return Retry
	}
	helpers.LogInfo(h.Logger, "email sent", logrus.Fields{"template": job.Template})
	return Ack
}

// Settle acknowledges d according to outcome.
func Settle(d Delivery, outcome Outcome) error {
	switch outcome {
	case Ack:
		return d.Ack(false)
	case Retry:
		return d.Nack(false, true)
	default:
		return d.Nack(false, false)
	}
}

// Attempts reads AttemptsHeader, treating a missing or odd value as zero.
func Attempts(headers amqp.Table) int {
	switch v := headers[AttemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Process handles msg and settles it. A retry republishes a copy with the
// attempt count bumped and acks the original, so a broken sender cannot spin
// the same delivery forever.
func (h *EmailHandler) Process(ctx context.Context, pub Republisher, queue string, msg amqp.Delivery) error {
	attempt := Attempts(msg.Headers) + 1
	outcome := h.Handle(ctx, msg.Body, attempt)
	if outcome != Retry {
		return Settle(msg, outcome)
	}
	if err := h.republish(ctx, pub, queue, msg, attempt); err != nil {
		helpers.LogWarn(h.Logger, "retry publish failed, requeueing", err, nil)
		return Settle(msg, Retry)
	}
	return msg.Ack(false)
}

func (h *EmailHandler) republish(ctx context.Context, pub Republisher, queue string, msg amqp.Delivery, attempt int) error {
	if h.RetryDelay > 0 {
		t := time.NewTimer(h.RetryDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[AttemptsHeader] = int32(attempt)
	p := newPublishing(msg.Body, time.Now())
	p.Headers = headers
	return pub.PublishWithContext(ctx, "", queue, false, false, p)
}

// Consume reads from queue until ctx is cancelled or the channel closes.
func Consume(ctx context.Context, ch *amqp.Channel, queue string, h *EmailHandler) error {
	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		return err
	}
	if err := DeclareQueue(ch, queue); err != nil {
		return err
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := h.Process(ctx, ch, queue, msg); err != nil {
				helpers.LogWarn(h.Logger, "settle failed", err, nil)
			}
		}
	}
}
