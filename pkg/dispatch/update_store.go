package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// handleUpdateStore applies the sparse update and, when the update sets the
// store into a migrating state while running as Parent, mirrors it to the
// peer cluster (spec.md §4.4, "may also trigger a mirror to a peer cluster
// during migration").
func handleUpdateStore(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.UpdateStoreOptions)
	if !ok {
		return fmt.Errorf("update store: unexpected payload type %T", op.Payload)
	}

	if err := be.ApplyUpdateStore(ctx, p); err != nil {
		return err
	}

	if role == types.RoleParent && p.IsMigrating != nil && *p.IsMigrating {
		return be.MirrorToPeerCluster(ctx, p.StoreName, p)
	}
	return nil
}
