package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

func handleSetCurrentVersion(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.SetCurrentVersionPayload)
	if !ok {
		return fmt.Errorf("set current version: unexpected payload type %T", op.Payload)
	}
	return be.SetCurrentVersion(ctx, p.StoreName, p.CurrentVersion)
}

func handleSetOwner(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.SetOwnerPayload)
	if !ok {
		return fmt.Errorf("set owner: unexpected payload type %T", op.Payload)
	}
	return be.SetOwner(ctx, p.StoreName, p.Owner)
}

func handleSetPartition(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.SetPartitionPayload)
	if !ok {
		return fmt.Errorf("set partition: unexpected payload type %T", op.Payload)
	}
	return be.SetPartitionCount(ctx, p.StoreName, p.PartitionCount)
}
