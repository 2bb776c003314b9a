package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service records audit entries. Callers treat failures as advisory:
// an audit write must never abort the mutation it describes.
type Service interface {
	AuditLog(
		ctx context.Context,
		tenantID *snowflake.ID,
		actorType string,
		actorID *string,
		action string,
		targetType string,
		targetID *string,
		metadata map[string]any,
	) error
}
