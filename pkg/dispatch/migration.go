package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// handleMigrateStore invokes the cross-cluster migration in Parent role;
// in Child role it only records the migration source/destination locally
// (spec.md §4.4).
func handleMigrateStore(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.MigrateStorePayload)
	if !ok {
		return fmt.Errorf("migrate store: unexpected payload type %T", op.Payload)
	}

	if err := be.RecordMigration(ctx, p.StoreName, p.SourceCluster, p.DestCluster); err != nil {
		return err
	}
	if role == types.RoleParent {
		return be.MirrorToPeerCluster(ctx, p.StoreName, p)
	}
	return nil
}

// handleAbortMigration cancels migration on this cluster, and on the peer
// cluster too when running as Parent (spec.md §4.4, "Cancel migration on
// both clusters").
func handleAbortMigration(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.AbortMigrationPayload)
	if !ok {
		return fmt.Errorf("abort migration: unexpected payload type %T", op.Payload)
	}

	if err := be.AbortMigration(ctx, p.StoreName, p.SourceCluster, p.DestCluster); err != nil {
		return err
	}
	if role == types.RoleParent {
		return be.MirrorToPeerCluster(ctx, p.StoreName, p)
	}
	return nil
}
