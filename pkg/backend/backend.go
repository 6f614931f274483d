package backend

import (
	"context"
	"errors"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// ErrUnsupportedOperation signals that this deployment cannot honor a given
// operation kind. Per spec.md §4.4.2 it is treated as a successfully
// ignored outcome, not a failure: the watermark advances and the queue
// head is removed.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// Retriable wraps a transient backend error: coordinator conflict,
// transport failure, or anything else expected to succeed on a later
// attempt with no state change required first.
type Retriable struct {
	Err error
}

func (e *Retriable) Error() string { return "retriable: " + e.Err.Error() }
func (e *Retriable) Unwrap() error { return e.Err }

// AdminBackend is the administrative state machine every DispatchTable
// handler mutates: the store catalog, schema registry, and version
// manager (spec.md §1, §4.4). The real implementation is out of scope;
// this interface is the contract handlers are written against. Catalog is
// the reference bbolt-backed implementation.
type AdminBackend interface {
	StoreExists(ctx context.Context, store string) (bool, error)
	CreateStore(ctx context.Context, p types.StoreCreationPayload) error

	RegisterSchema(ctx context.Context, p types.SchemaCreationPayload) error

	SetEnableRead(ctx context.Context, store string, enabled bool) error
	SetEnableWrite(ctx context.Context, store string, enabled bool) error
	SetCurrentVersion(ctx context.Context, store string, version int) error
	SetOwner(ctx context.Context, store, owner string) error
	SetPartitionCount(ctx context.Context, store string, count int) error

	ApplyUpdateStore(ctx context.Context, opts types.UpdateStoreOptions) error

	DeleteAllVersions(ctx context.Context, store string) error
	DeleteVersion(ctx context.Context, store string, version int) error
	DematerializeVersion(ctx context.Context, store string, version int) error
	DeleteStore(ctx context.Context, store string, largestUsedVersion int) error

	IsMigrating(ctx context.Context, store string) (bool, error)
	RecordMigration(ctx context.Context, store, sourceCluster, destCluster string) error
	AbortMigration(ctx context.Context, store, sourceCluster, destCluster string) error

	StoreKind(ctx context.Context, store string) (types.StoreKind, error)
	AddVersion(ctx context.Context, p types.AddVersionPayload) error
	BumpSharedMetadataVersion(ctx context.Context, p types.AddVersionPayload) error
	MaterializeMetadataStore(ctx context.Context, p types.AddVersionPayload) error

	KillPushJob(ctx context.Context, store, topic string) error

	// MirrorToPeerCluster forwards a mutation to the peer datacenter's
	// AdminBackend during cross-cluster migration (UpdateStore's migration
	// mirror and AddVersion's parent-role mirror, spec.md §4.4). The
	// reference Catalog implementation logs and no-ops: a real peer-cluster
	// client is out of scope (spec.md §1).
	MirrorToPeerCluster(ctx context.Context, store string, payload types.Payload) error
}
