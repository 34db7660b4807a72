package driven

import (
	"context"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// Notifier delivers attention reports to an external channel.
// This is an optional service - when nil, reports are not sent anywhere.
type Notifier interface {
	// SendAttentionReport delivers a report about documents that need
	// HR follow-up.
	SendAttentionReport(ctx context.Context, report domain.AttentionReport) error
}
