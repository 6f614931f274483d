package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// handleAddVersion branches on role per spec.md §4.4: Parent mirrors the
// add-version to the peer cluster when the store is migrating; Child
// branches further on store kind (shared-metadata-store version bump,
// metadata-store materialization, or standard add-and-start-ingestion).
func handleAddVersion(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.AddVersionPayload)
	if !ok {
		return fmt.Errorf("add version: unexpected payload type %T", op.Payload)
	}

	if role == types.RoleParent {
		migrating, err := be.IsMigrating(ctx, p.StoreName)
		if err != nil {
			return err
		}
		if migrating {
			return be.MirrorToPeerCluster(ctx, p.StoreName, p)
		}
		return be.AddVersion(ctx, p)
	}

	kind, err := be.StoreKind(ctx, p.StoreName)
	if err != nil {
		return err
	}
	switch kind {
	case types.StoreKindSharedMetadataStore:
		return be.BumpSharedMetadataVersion(ctx, p)
	case types.StoreKindMetadataSystemStore:
		return be.MaterializeMetadataStore(ctx, p)
	default:
		return be.AddVersion(ctx, p)
	}
}

// handleKillOfflinePushJob is a no-op in Parent role; Child kills the
// identified push (spec.md §4.4).
func handleKillOfflinePushJob(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.KillOfflinePushJobPayload)
	if !ok {
		return fmt.Errorf("kill offline push job: unexpected payload type %T", op.Payload)
	}

	if role == types.RoleParent {
		return nil
	}
	return be.KillPushJob(ctx, p.StoreName, p.Topic)
}
