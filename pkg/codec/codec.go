package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// CurrentSchemaVersion is the only envelope version this codec accepts.
// Bumping it is a deliberate, coordinated change to this file and to
// DispatchTable (spec.md §9, "Codec stability").
const CurrentSchemaVersion = 1

// ErrMalformedRecord is returned for any record this codec cannot decode:
// an unknown schema version, an unknown kind, or a payload that does not
// match its kind's expected shape.
type ErrMalformedRecord struct {
	Reason string
}

func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("malformed admin record: %s", e.Reason)
}

func malformed(format string, args ...interface{}) error {
	return &ErrMalformedRecord{Reason: fmt.Sprintf(format, args...)}
}

// envelope is the on-the-wire shape of one admin log record.
type envelope struct {
	SchemaVersion        int             `json:"schemaVersion"`
	Kind                 string          `json:"kind"`
	ExecutionID          int64           `json:"executionId"`
	ProducerTimestamp    int64           `json:"producerTimestamp"`    // unix millis
	LocalBrokerTimestamp int64           `json:"localBrokerTimestamp"` // unix millis
	Payload              json.RawMessage `json:"payload"`
}

// OperationCodec decodes raw log bytes into types.AdminOperation values.
type OperationCodec struct{}

// New returns an OperationCodec. It is stateless; a value receiver would
// do, but a constructor keeps call sites uniform with the rest of the
// core's components.
func New() *OperationCodec {
	return &OperationCodec{}
}

// Decode parses one raw admin log record.
func (c *OperationCodec) Decode(raw []byte) (types.AdminOperation, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return types.AdminOperation{}, malformed("invalid envelope json: %v", err)
	}
	if env.SchemaVersion != CurrentSchemaVersion {
		return types.AdminOperation{}, malformed("unsupported schema version %d", env.SchemaVersion)
	}

	kind := types.OperationKind(env.Kind)
	payload, err := decodePayload(kind, env.Payload)
	if err != nil {
		return types.AdminOperation{}, err
	}

	return types.AdminOperation{
		ExecutionID:          env.ExecutionID,
		Kind:                 kind,
		Payload:              payload,
		ProducerTimestamp:    millisToTime(env.ProducerTimestamp),
		LocalBrokerTimestamp: millisToTime(env.LocalBrokerTimestamp),
	}, nil
}

// KindOf is total over the closed set of kinds this codec knows about; it
// reads only the Kind tag of an already decoded operation.
func (c *OperationCodec) KindOf(op types.AdminOperation) types.OperationKind {
	return op.Kind
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func decodePayload(kind types.OperationKind, raw json.RawMessage) (types.Payload, error) {
	switch kind {
	case types.StoreCreation:
		var p types.StoreCreationPayload
		return unmarshalInto(raw, &p)

	case types.ValueSchemaCreation:
		return decodeSchema(raw, types.SchemaClassValue)
	case types.DerivedSchemaCreation:
		return decodeSchema(raw, types.SchemaClassDerived)
	case types.SupersetSchemaCreation:
		return decodeSchema(raw, types.SchemaClassSuperset)

	case types.EnableStoreRead, types.DisableStoreRead, types.EnableStoreWrite, types.DisableStoreWrite:
		var p types.BooleanTogglePayload
		p.Value = kind == types.EnableStoreRead || kind == types.EnableStoreWrite
		var body struct {
			StoreName string `json:"storeName"`
		}
		if _, err := unmarshalInto(raw, &body); err != nil {
			return nil, err
		}
		p.StoreName = body.StoreName
		return p, nil

	case types.SetStoreCurrentVersion:
		var p types.SetCurrentVersionPayload
		return unmarshalInto(raw, &p)
	case types.SetStoreOwner:
		var p types.SetOwnerPayload
		return unmarshalInto(raw, &p)
	case types.SetStorePartition:
		var p types.SetPartitionPayload
		return unmarshalInto(raw, &p)

	case types.UpdateStore:
		var p types.UpdateStoreOptions
		p.CurrentVersion = types.IgnoredCurrentVersion
		return unmarshalInto(raw, &p)

	case types.DeleteAllVersions:
		var p types.DeleteAllVersionsPayload
		return unmarshalInto(raw, &p)
	case types.DeleteOldVersion:
		var p types.DeleteOldVersionPayload
		return unmarshalInto(raw, &p)
	case types.DeleteStore:
		var p types.DeleteStorePayload
		return unmarshalInto(raw, &p)
	case types.MigrateStore:
		var p types.MigrateStorePayload
		return unmarshalInto(raw, &p)
	case types.AbortMigration:
		var p types.AbortMigrationPayload
		return unmarshalInto(raw, &p)
	case types.AddVersion:
		var p types.AddVersionPayload
		return unmarshalInto(raw, &p)
	case types.KillOfflinePushJob:
		var p types.KillOfflinePushJobPayload
		return unmarshalInto(raw, &p)

	default:
		return nil, malformed("unknown operation kind %q", kind)
	}
}

func decodeSchema(raw json.RawMessage, class types.SchemaClass) (types.Payload, error) {
	var p types.SchemaCreationPayload
	if _, err := unmarshalInto(raw, &p); err != nil {
		return nil, err
	}
	p.Class = class
	return p, nil
}

// unmarshalInto decodes raw into dst and returns *dst as a value copy, so
// callers get a Payload they can store without aliasing raw.
func unmarshalInto[T any](raw json.RawMessage, dst *T) (T, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return *dst, malformed("bad payload: %v", err)
	}
	return *dst, nil
}
