package types

// StoreCreationPayload backs STORE_CREATION.
type StoreCreationPayload struct {
	StoreName      string
	Owner          string
	KeySchema      string
	ValueSchema    string
	IsSystemStore  bool
}

func (p StoreCreationPayload) AffectedStore() string { return p.StoreName }

// SchemaClass distinguishes the three schema-creation kinds, which share a
// payload shape but register under different schema namespaces.
type SchemaClass string

const (
	SchemaClassValue    SchemaClass = "value"
	SchemaClassDerived  SchemaClass = "derived"
	SchemaClassSuperset SchemaClass = "superset"
)

// SchemaCreationPayload backs VALUE_SCHEMA_CREATION, DERIVED_SCHEMA_CREATION,
// and SUPERSET_SCHEMA_CREATION.
type SchemaCreationPayload struct {
	StoreName  string
	Class      SchemaClass
	SchemaID   int
	Schema     string
}

func (p SchemaCreationPayload) AffectedStore() string { return p.StoreName }

// BooleanTogglePayload backs the four read/write enable/disable kinds.
type BooleanTogglePayload struct {
	StoreName string
	Value     bool
}

func (p BooleanTogglePayload) AffectedStore() string { return p.StoreName }

// SetCurrentVersionPayload backs SET_STORE_CURRENT_VERSION.
type SetCurrentVersionPayload struct {
	StoreName      string
	CurrentVersion int
}

func (p SetCurrentVersionPayload) AffectedStore() string { return p.StoreName }

// SetOwnerPayload backs SET_STORE_OWNER.
type SetOwnerPayload struct {
	StoreName string
	Owner     string
}

func (p SetOwnerPayload) AffectedStore() string { return p.StoreName }

// SetPartitionPayload backs SET_STORE_PARTITION.
type SetPartitionPayload struct {
	StoreName      string
	PartitionCount int
}

func (p SetPartitionPayload) AffectedStore() string { return p.StoreName }

// CompressionStrategy enumerates UpdateStoreOptions.CompressionStrategy.
type CompressionStrategy string

const (
	CompressionNone   CompressionStrategy = "NO_OP"
	CompressionGzip   CompressionStrategy = "GZIP"
	CompressionZstd   CompressionStrategy = "ZSTD"
	CompressionZstdWD CompressionStrategy = "ZSTD_WITH_DICT"
)

// BackupStrategy enumerates UpdateStoreOptions.BackupStrategy.
type BackupStrategy string

const (
	BackupKeepMinVersions BackupStrategy = "KEEP_MIN_VERSIONS"
	BackupDeleteOnNewPush BackupStrategy = "DELETE_ON_NEW_PUSH_START"
)

// IncrementalPushPolicy enumerates UpdateStoreOptions.IncrementalPushPolicy.
type IncrementalPushPolicy string

const (
	IncPushPolicyPushToVersionTopic   IncrementalPushPolicy = "PUSH_TO_VERSION_TOPIC"
	IncPushPolicyIncrementalPushSameAsRT IncrementalPushPolicy = "INCREMENTAL_PUSH_SAME_AS_REAL_TIME"
)

// ETLConfig is the nested etl{regular, future, proxyUser} option group.
type ETLConfig struct {
	RegularVersionETLEnabled bool
	FutureVersionETLEnabled  bool
	ETLProxyUser             string
}

// UpdateStoreOptions is the sparse UPDATE_STORE payload: a nil field means
// "do not change this property." currentVersion uses the explicit
// IgnoredCurrentVersion sentinel instead of a pointer because that is what
// the wire schema mandates (spec.md Design Notes, "sparse update request").
type UpdateStoreOptions struct {
	StoreName string

	Owner                              *string
	EnableReads                        *bool
	EnableWrites                       *bool
	PartitionCount                     *int
	PartitionerClass                   *string
	PartitionerParams                  map[string]string
	AmplificationFactor                *int
	StorageQuotaInByte                 *int64
	HybridStoreOverheadBypass          *bool
	ReadQuotaInCU                      *int64
	CurrentVersion                     int // IgnoredCurrentVersion sentinel when unset
	HybridRewindSeconds                *int64
	HybridOffsetLagThreshold           *int64
	AccessControlled                   *bool
	CompressionStrategy                *CompressionStrategy
	ClientDecompressionEnabled         *bool
	ChunkingEnabled                    *bool
	SingleGetRouterCacheEnabled        *bool
	BatchGetRouterCacheEnabled         *bool
	BatchGetLimit                      *int
	NumVersionsToPreserve              *int
	IncrementalPushEnabled             *bool
	IsMigrating                        *bool
	WriteComputationEnabled            *bool
	ReadComputationEnabled             *bool
	BootstrapToOnlineTimeoutInHours    *int
	LeaderFollowerModel                *bool
	BackupStrategy                     *BackupStrategy
	SchemaAutoRegisterFromPushJobEnabled *bool
	HybridStoreDiskQuotaEnabled        *bool
	ReplicationFactor                  *int
	ETL                                *ETLConfig
	LargestUsedVersionNumber           *int
	NativeReplicationEnabled           *bool
	PushStreamSourceAddress            *string
	IncrementalPushPolicy              *IncrementalPushPolicy
	BackupVersionRetentionMs           *int64
}

func (p UpdateStoreOptions) AffectedStore() string { return p.StoreName }

// DeleteAllVersionsPayload backs DELETE_ALL_VERSIONS.
type DeleteAllVersionsPayload struct {
	StoreName string
}

func (p DeleteAllVersionsPayload) AffectedStore() string { return p.StoreName }

// DeleteOldVersionPayload backs DELETE_OLD_VERSION.
type DeleteOldVersionPayload struct {
	StoreName      string
	VersionNumber  int
}

func (p DeleteOldVersionPayload) AffectedStore() string { return p.StoreName }

// DeleteStorePayload backs DELETE_STORE.
type DeleteStorePayload struct {
	StoreName               string
	LargestUsedVersionNumber int // IgnoreVersion sentinel when store is migrating
}

func (p DeleteStorePayload) AffectedStore() string { return p.StoreName }

// MigrateStorePayload backs MIGRATE_STORE.
type MigrateStorePayload struct {
	StoreName     string
	SourceCluster string
	DestCluster   string
}

func (p MigrateStorePayload) AffectedStore() string { return p.StoreName }

// AbortMigrationPayload backs ABORT_MIGRATION.
type AbortMigrationPayload struct {
	StoreName     string
	SourceCluster string
	DestCluster   string
}

func (p AbortMigrationPayload) AffectedStore() string { return p.StoreName }

// StoreKind distinguishes ordinary user stores from the internal metadata
// system stores that some handlers branch on (spec.md §4.4, DeleteOldVersion
// and AddVersion).
type StoreKind string

const (
	StoreKindRegular              StoreKind = "regular"
	StoreKindMetadataSystemStore  StoreKind = "metadata_system_store"
	StoreKindSharedMetadataStore  StoreKind = "shared_metadata_store"
)

// AddVersionPayload backs ADD_VERSION.
type AddVersionPayload struct {
	StoreName     string
	VersionNumber int
	PushJobID     string
	NumberOfPartitions int
}

func (p AddVersionPayload) AffectedStore() string { return p.StoreName }

// KillOfflinePushJobPayload backs KILL_OFFLINE_PUSH_JOB.
type KillOfflinePushJobPayload struct {
	StoreName string
	Topic     string
}

func (p KillOfflinePushJobPayload) AffectedStore() string { return p.StoreName }
