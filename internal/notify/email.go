package notify

import (
	"go.uber.org/zap"
)

// LogEmailSender is a stub sender that writes the email to the log
// instead of delivering it.
type LogEmailSender struct {
	Log *zap.Logger
}

func (s *LogEmailSender) Send(to, message string) error {
	s.Log.Info("sending email",
		zap.String("to", to),
		zap.String("message", message),
	)
	return nil
}
