package dispatch

import (
	"context"
	"fmt"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// handlerFunc carries out one operation kind's effect against the backend.
type handlerFunc func(ctx context.Context, be backend.AdminBackend, role types.Role, op types.AdminOperation) error

// Table maps every closed-set operation kind to its handler (spec.md §4.4).
// Role is process-wide and immutable after construction (Design Note "Role
// as configuration, not polymorphism"); it is threaded into every handler
// rather than cached per-call so a single Table value has no other mutable
// state.
type Table struct {
	backend  backend.AdminBackend
	role     types.Role
	handlers map[types.OperationKind]handlerFunc
}

// NewTable builds the dispatch table for the given backend and role.
func NewTable(be backend.AdminBackend, role types.Role) *Table {
	t := &Table{backend: be, role: role}
	t.handlers = map[types.OperationKind]handlerFunc{
		types.StoreCreation:          handleStoreCreation,
		types.ValueSchemaCreation:    handleSchemaCreation,
		types.DerivedSchemaCreation:  handleSchemaCreation,
		types.SupersetSchemaCreation: handleSchemaCreation,
		types.EnableStoreRead:        handleToggle,
		types.DisableStoreRead:       handleToggle,
		types.EnableStoreWrite:       handleToggle,
		types.DisableStoreWrite:      handleToggle,
		types.SetStoreCurrentVersion: handleSetCurrentVersion,
		types.SetStoreOwner:          handleSetOwner,
		types.SetStorePartition:      handleSetPartition,
		types.UpdateStore:            handleUpdateStore,
		types.DeleteAllVersions:      handleDeleteAllVersions,
		types.DeleteOldVersion:       handleDeleteOldVersion,
		types.DeleteStore:            handleDeleteStore,
		types.MigrateStore:           handleMigrateStore,
		types.AbortMigration:         handleAbortMigration,
		types.AddVersion:             handleAddVersion,
		types.KillOfflinePushJob:     handleKillOfflinePushJob,
	}
	return t
}

// Dispatch routes op to its handler. An operation kind outside the closed
// set is a Fatal condition per spec.md §7 ("unknown operation kind"); the
// codec should already have rejected it as MalformedRecord before this
// point, so reaching here is itself a defect.
func (t *Table) Dispatch(ctx context.Context, op types.AdminOperation) error {
	h, ok := t.handlers[op.Kind]
	if !ok {
		return fmt.Errorf("no handler registered for operation kind %q", op.Kind)
	}
	return h(ctx, t.backend, t.role, op)
}
