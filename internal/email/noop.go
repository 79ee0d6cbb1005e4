package email

import (
	"context"

	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"go.uber.org/zap"
)

// NoopSender logs instead of sending. Used when SES is not configured.
type NoopSender struct{}

var _ Sender = (*NoopSender)(nil)

func (NoopSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error {
	logger.Log.Info("Password reset email suppressed (no mail backend configured)",
		zap.String("to", toEmail),
	)
	return nil
}
