package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

func handleSchemaCreation(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.SchemaCreationPayload)
	if !ok {
		return fmt.Errorf("schema creation: unexpected payload type %T", op.Payload)
	}
	// RegisterSchema rejects id conflicts itself, per spec.md §4.4.
	return be.RegisterSchema(ctx, p)
}
