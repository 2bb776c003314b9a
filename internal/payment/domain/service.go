package domain

import (
	"context"
	"errors"
)

// IngestResult tells the webhook handler what happened; the handler
// acknowledges every result the same way, the distinction drives
// logging and metrics only.
type IngestResult string

const (
	ResultSettled   IngestResult = "settled"
	ResultIgnored   IngestResult = "ignored"
	ResultUnmatched IngestResult = "unmatched"
	ResultDuplicate IngestResult = "duplicate"
)

type Service interface {
	// IngestWebhook parses a provider callback, records it, and
	// settles the matching order when the payment is finished.
	IngestWebhook(ctx context.Context, provider, contentType string, payload []byte) (IngestResult, error)
}

var (
	ErrProviderNotFound       = errors.New("provider_not_found")
	ErrInvalidPayload         = errors.New("invalid_payload")
	ErrUnsupportedContentType = errors.New("unsupported_content_type")
)
