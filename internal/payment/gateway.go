package payment

import (
	"context"

	"github.com/Arulthas05/gym-management-backend/internal/logger"
)

// Gateway is the external payment processor. The real client lives outside
// this service; charges arrive already authorized, so only refunds go back
// out through it.
type Gateway interface {
	Refund(ctx context.Context, transactionID string, amount float64) error
}

// LogGateway stands in when no processor is configured. It acknowledges
// refunds after logging them so the rest of the flow can be exercised.
type LogGateway struct{}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

func (g *LogGateway) Refund(ctx context.Context, transactionID string, amount float64) error {
	logger.Infof("Refund requested: transaction=%s amount=%.2f", transactionID, amount)
	return nil
}
