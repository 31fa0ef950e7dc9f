// Package mail is the outbound-email boundary: typed jobs go onto a
// Redis-backed queue, a worker drains them into a Sender. Actual SMTP
// delivery and templating live behind the Sender interface.
package mail

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/roland-adams2007/CreatorSpaceBackend/config"
	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

// Dispatcher enqueues typed email jobs. Callers never wait on delivery.
type Dispatcher interface {
	EnqueueVerificationEmail(ctx context.Context, payload VerifyEmailPayload) error
	EnqueueLoginNotification(ctx context.Context, payload LoginNotificationPayload) error
}

// AsynqDispatcher implements Dispatcher on top of asynq.
type AsynqDispatcher struct {
	client *asynq.Client
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewAsynqDispatcher(opt asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(opt)}
}

func (d *AsynqDispatcher) EnqueueVerificationEmail(ctx context.Context, payload VerifyEmailPayload) error {
	return d.enqueue(ctx, TaskTypeVerifyEmail, payload)
}

func (d *AsynqDispatcher) EnqueueLoginNotification(ctx context.Context, payload LoginNotificationPayload) error {
	return d.enqueue(ctx, TaskTypeLoginNotification, payload)
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, asynq.NewTask(taskType, data),
		asynq.Queue(QueueName),
		asynq.MaxRetry(5),
	)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("task_id", info.ID).
		Str("type", taskType).
		Msg("email job enqueued")

	return nil
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
