package main

import (
	"log/slog"
	"time"

	"InfiniteDbAccounts/internal/config"
	"InfiniteDbAccounts/internal/email"
	"InfiniteDbAccounts/internal/notifications"
)

// buildNotifier combines the notifiers named in APP_NOTIFIERS. The returned
// close func releases the Kafka writer, if one was opened.
func buildNotifier(cfg config.Config, logger *slog.Logger) (notifications.Dispatcher, func() error) {
	var (
		fan       notifications.Fanout
		publisher *notifications.EventPublisher
	)

	for _, name := range cfg.Notifiers {
		switch name {
		case config.NotifierLog:
			fan = append(fan, &notifications.LogDispatcher{Logger: logger})
		case config.NotifierKafka:
			publisher = &notifications.EventPublisher{
				Writer:            notifications.NewKafkaWriter(cfg.Kafka.Brokers),
				LifecycleTopic:    cfg.Kafka.LifecycleTopic,
				VerificationTopic: cfg.Kafka.VerificationTopic,
				Logger:            logger,
			}
			fan = append(fan, publisher)
		case config.NotifierEmail:
			fan = append(fan, &notifications.EmailDispatcher{
				Sender:    emailSender(cfg.SMTP, logger),
				FromEmail: cfg.SMTP.FromEmail,
				FromName:  cfg.SMTP.FromName,
				ResetURL:  cfg.ResetURL,
			})
		}
	}

	closeFn := func() error { return publisher.Close() }
	if len(fan) == 1 {
		return fan[0], closeFn
	}
	return fan, closeFn
}

func emailSender(c config.SMTPConfig, logger *slog.Logger) email.Sender {
	if c.Host == "" {
		logger.Warn("APP_SMTP_HOST not set, emails are logged instead of sent")
		return &email.LogSender{Logger: logger}
	}
	return &email.SMTPSender{
		Settings: email.SMTPSettings{
			Host:     c.Host,
			Port:     c.Port,
			Username: c.Username,
			Password: c.Password,
			TLSMode:  c.TLSMode,
		},
		DialTimeout: 10 * time.Second,
	}
}
