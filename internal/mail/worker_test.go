package mail_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roland-adams2007/CreatorSpaceBackend/internal/mail"
)

type recordingSender struct {
	verifications []mail.VerifyEmailPayload
	notifications []mail.LoginNotificationPayload
	err           error
}

func (s *recordingSender) SendVerificationEmail(_ context.Context, payload mail.VerifyEmailPayload) error {
	s.verifications = append(s.verifications, payload)
	return s.err
}

func (s *recordingSender) SendLoginNotification(_ context.Context, payload mail.LoginNotificationPayload) error {
	s.notifications = append(s.notifications, payload)
	return s.err
}

func newTask(t *testing.T, taskType string, payload any) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(taskType, data)
}

func TestWorkerHandlesVerifyEmail(t *testing.T) {
	sender := &recordingSender{}
	w := mail.NewWorker(asynq.RedisClientOpt{Addr: "localhost:6379"}, sender)

	payload := mail.VerifyEmailPayload{To: "ada@example.com", Name: "Ada", Token: "raw-token"}
	err := w.Handler().ProcessTask(context.Background(), newTask(t, mail.TaskTypeVerifyEmail, payload))

	require.NoError(t, err)
	require.Len(t, sender.verifications, 1)
	assert.Equal(t, payload, sender.verifications[0])
}

func TestWorkerHandlesLoginNotification(t *testing.T) {
	sender := &recordingSender{}
	w := mail.NewWorker(asynq.RedisClientOpt{Addr: "localhost:6379"}, sender)

	payload := mail.LoginNotificationPayload{
		Email:      "ada@example.com",
		UserName:   "Ada",
		LoginTime:  "2026-09-01T10:00:00Z",
		IPAddress:  "203.0.113.9",
		DeviceInfo: "Chrome on Windows",
	}
	err := w.Handler().ProcessTask(context.Background(), newTask(t, mail.TaskTypeLoginNotification, payload))

	require.NoError(t, err)
	require.Len(t, sender.notifications, 1)
	assert.Equal(t, payload, sender.notifications[0])
}

func TestWorkerRejectsMalformedPayload(t *testing.T) {
	sender := &recordingSender{}
	w := mail.NewWorker(asynq.RedisClientOpt{Addr: "localhost:6379"}, sender)

	task := asynq.NewTask(mail.TaskTypeVerifyEmail, []byte("not json"))
	err := w.Handler().ProcessTask(context.Background(), task)

	assert.Error(t, err)
	assert.Empty(t, sender.verifications)
}
