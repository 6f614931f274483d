package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

func handleStoreCreation(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.StoreCreationPayload)
	if !ok {
		return fmt.Errorf("store creation: unexpected payload type %T", op.Payload)
	}
	// CreateStore itself skips-and-logs if the store already exists; see
	// backend.Catalog.CreateStore.
	return be.CreateStore(ctx, p)
}
