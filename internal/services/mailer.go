package services

import "go.uber.org/zap"

// LogMailer writes reset codes to the log instead of sending mail. Good
// enough for development and tests; swap in a real Mailer for production.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a Mailer that logs instead of delivering.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendResetCode logs the code at info level.
func (m *LogMailer) SendResetCode(email, code string) error {
	m.logger.Info("password reset code issued",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}
