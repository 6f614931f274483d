package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

func handleToggle(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error {
	p, ok := op.Payload.(types.BooleanTogglePayload)
	if !ok {
		return fmt.Errorf("boolean toggle: unexpected payload type %T", op.Payload)
	}

	switch op.Kind {
	case types.EnableStoreRead:
		return be.SetEnableRead(ctx, p.StoreName, true)
	case types.DisableStoreRead:
		return be.SetEnableRead(ctx, p.StoreName, false)
	case types.EnableStoreWrite:
		return be.SetEnableWrite(ctx, p.StoreName, true)
	case types.DisableStoreWrite:
		return be.SetEnableWrite(ctx, p.StoreName, false)
	default:
		return fmt.Errorf("boolean toggle: unexpected kind %q", op.Kind)
	}
}
