package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tws-events/checkin/internal/mailer"
	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/queue"
)

// JobSource is the queue the notifier consumes.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) (bool, error)
}

// DeliveryLog records the outcome of each send attempt.
type DeliveryLog interface {
	Record(ctx context.Context, el *models.EmailLog) error
}

// PassNotifier processes pass confirmation jobs: render the email, send it, retry on error.
type PassNotifier struct {
	queue    JobSource
	renderer *mailer.Renderer
	mailer   mailer.Mailer
	event    string
	log      DeliveryLog
	backoff  time.Duration
	logger   *zap.Logger
}

// NewPassNotifier creates a pass confirmation processor.
func NewPassNotifier(q JobSource, renderer *mailer.Renderer, m mailer.Mailer, event string, logger *zap.Logger) *PassNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PassNotifier{
		queue:    q,
		renderer: renderer,
		mailer:   m,
		event:    event,
		backoff:  queue.RetryBackoff,
		logger:   logger,
	}
}

// SetDeliveryLog enables recording of send attempts. Recording failures are logged, not retried.
func (p *PassNotifier) SetDeliveryLog(l DeliveryLog) {
	p.log = l
}

// Process executes one pass confirmation job.
func (p *PassNotifier) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypePassIssued {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.PassIssuedPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.Email == "" {
		return fmt.Errorf("job %s has no recipient", job.ID)
	}

	msg, err := p.renderer.PassConfirmation(mailer.PassDetails{
		Event:          p.event,
		RegistrationID: payload.RegistrationID,
		FullName:       payload.FullName,
		Email:          payload.Email,
		Institution:    payload.Institution,
	})
	if err != nil {
		return err
	}
	messageID, err := p.mailer.Send(ctx, msg)
	p.record(ctx, job, msg, messageID, err)
	if err != nil {
		return err
	}

	p.logger.Info("pass confirmation sent",
		zap.String("registration_id", payload.RegistrationID),
		zap.String("message_id", messageID),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error. It returns when ctx is done.
func (p *PassNotifier) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			p.logger.Info("pass notifier stopping")
			return
		}

		job, err := p.queue.Dequeue(ctx, queue.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if _, reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *PassNotifier) record(ctx context.Context, job *queue.Job, msg *mailer.Message, messageID string, sendErr error) {
	if p.log == nil {
		return
	}
	var payload queue.PassIssuedPayload
	_ = json.Unmarshal(job.Payload, &payload)
	el := &models.EmailLog{
		RegistrationID: payload.RegistrationID,
		EmailType:      models.EmailTypePassConfirmation,
		RecipientEmail: msg.To,
		Subject:        msg.Subject,
		Status:         models.EmailLogStatusSent,
		MessageID:      messageID,
		Attempt:        job.Attempt,
	}
	if sendErr != nil {
		el.Status = models.EmailLogStatusFailed
		el.ErrorMessage = sendErr.Error()
	}
	if err := p.log.Record(ctx, el); err != nil {
		p.logger.Warn("record email log", zap.Error(err), zap.String("registration_id", el.RegistrationID))
	}
}

func (p *PassNotifier) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
