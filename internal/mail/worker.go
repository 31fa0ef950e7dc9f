package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/roland-adams2007/CreatorSpaceBackend/pkg/logger"
)

// Sender performs the actual delivery of one email. SMTP transport and HTML
// templating are external collaborators behind this interface.
type Sender interface {
	SendVerificationEmail(ctx context.Context, payload VerifyEmailPayload) error
	SendLoginNotification(ctx context.Context, payload LoginNotificationPayload) error
}

// Worker drains the email queue and hands decoded payloads to a Sender.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender Sender
}

func NewWorker(opt asynq.RedisClientOpt, sender Sender) *Worker {
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			QueueName: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("type", task.Type()).Msg("email job failed")
		}),
	})

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		sender: sender,
	}

	w.mux.HandleFunc(TaskTypeVerifyEmail, w.handleVerifyEmail)
	w.mux.HandleFunc(TaskTypeLoginNotification, w.handleLoginNotification)

	return w
}

// Run blocks processing email jobs until Shutdown is called or a signal
// arrives.
func (w *Worker) Run() error {
	logger.Info().Msg("email worker running")
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// Handler exposes the task mux for processing outside the server loop.
func (w *Worker) Handler() asynq.Handler {
	return w.mux
}

func (w *Worker) handleVerifyEmail(ctx context.Context, task *asynq.Task) error {
	var payload VerifyEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	return w.sender.SendVerificationEmail(ctx, payload)
}

func (w *Worker) handleLoginNotification(ctx context.Context, task *asynq.Task) error {
	var payload LoginNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	return w.sender.SendLoginNotification(ctx, payload)
}

// LogSender is a development Sender that only logs; it keeps the worker
// runnable without an SMTP collaborator.
type LogSender struct{}

func (LogSender) SendVerificationEmail(_ context.Context, payload VerifyEmailPayload) error {
	logger.Info().
		Str("to", payload.To).
		Str("name", payload.Name).
		Msg("verification email dispatched")
	return nil
}

func (LogSender) SendLoginNotification(_ context.Context, payload LoginNotificationPayload) error {
	logger.Info().
		Str("to", payload.Email).
		Str("device", payload.DeviceInfo).
		Str("ip", payload.IPAddress).
		Msg("login notification dispatched")
	return nil
}
