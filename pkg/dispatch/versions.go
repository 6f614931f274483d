package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

func handleDeleteAllVersions(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.DeleteAllVersionsPayload)
	if !ok {
		return fmt.Errorf("delete all versions: unexpected payload type %T", op.Payload)
	}
	return be.DeleteAllVersions(ctx, p.StoreName)
}

// handleDeleteOldVersion dematerializes the version if the store is a
// metadata system store, else deletes it outright (spec.md §4.4).
func handleDeleteOldVersion(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.DeleteOldVersionPayload)
	if !ok {
		return fmt.Errorf("delete old version: unexpected payload type %T", op.Payload)
	}

	kind, err := be.StoreKind(ctx, p.StoreName)
	if err != nil {
		return err
	}
	if kind == types.StoreKindMetadataSystemStore {
		return be.DematerializeVersion(ctx, p.StoreName, p.VersionNumber)
	}
	return be.DeleteVersion(ctx, p.StoreName, p.VersionNumber)
}

// handleDeleteStore passes the IGNORE_VERSION sentinel when the store is
// mid-migration, else the payload's largestUsedVersionNumber (spec.md §4.4).
func handleDeleteStore(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.DeleteStorePayload)
	if !ok {
		return fmt.Errorf("delete store: unexpected payload type %T", op.Payload)
	}

	migrating, err := be.IsMigrating(ctx, p.StoreName)
	if err != nil {
		return err
	}

	largest := p.LargestUsedVersionNumber
	if migrating {
		largest = types.IgnoreVersion
	}
	return be.DeleteStore(ctx, p.StoreName, largest)
}
