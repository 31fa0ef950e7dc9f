package mail

const (
	TaskTypeVerifyEmail       = "email:verify"
	TaskTypeLoginNotification = "email:login_notification"

	// QueueName is the asynq queue all email jobs land on.
	QueueName = "email"
)

// VerifyEmailPayload carries everything the worker needs to send a
// verification email, including the raw token that goes into the link.
type VerifyEmailPayload struct {
	To    string `json:"to"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// LoginNotificationPayload describes a completed login for the
// "new sign-in" notification email.
type LoginNotificationPayload struct {
	Email      string `json:"email"`
	UserName   string `json:"user_name"`
	LoginTime  string `json:"login_time"`
	IPAddress  string `json:"ip_address"`
	DeviceInfo string `json:"device_info"`
}
