package worker

import (
	"github.com/spec-kit/trend-blog/internal/service"
)

// StartNotificationWorker subscribes the notification service to the account
// and blog events it reacts to. Call once during startup, before the server
// accepts traffic.
func StartNotificationWorker(notifications *service.NotificationService) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
}
