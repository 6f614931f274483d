package leader

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// RaftOracle reports leadership of a hashicorp/raft group that this
// process bootstraps with itself as the only member, tuned with the same
// timeouts the teacher's pkg/manager uses for LAN failover. Unlike the teacher, this Raft group replicates
// nothing: noopFSM accepts and discards every entry, since the durable
// state this service cares about (offsets, execution ids, store records)
// already lives in WatermarkStore and AdminBackend.
type RaftOracle struct {
	raft     *raft.Raft
	leaderCh <-chan bool
}

// RaftConfig names the node and cluster this oracle bootstraps into a
// single-node Raft group. Joining additional nodes is out of scope for
// this deployment shape (spec.md's Non-goals exclude multi-node
// clustering); RaftOracle exists to give the Coordinator a real
// leadership signal even when only one node is running.
type RaftConfig struct {
	NodeID   string
	BindAddr string
	DataDir  string
}

// NewRaftOracle bootstraps a single-node Raft cluster rooted at
// cfg.DataDir and returns an Oracle backed by it.
func NewRaftOracle(cfg RaftConfig) (*RaftOracle, error) {
	config := raft.DefaultConfig()
	config.LocalID = raft.ServerID(cfg.NodeID)
	config.HeartbeatTimeout = 500 * time.Millisecond
	config.ElectionTimeout = 500 * time.Millisecond
	config.CommitTimeout = 50 * time.Millisecond
	config.LeaderLeaseTimeout = 250 * time.Millisecond

	addr, err := net.ResolveTCPAddr("tcp", cfg.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve bind address: %w", err)
	}

	transport, err := raft.NewTCPTransport(cfg.BindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("create raft transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(cfg.DataDir, 2, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("create snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-log.db"))
	if err != nil {
		return nil, fmt.Errorf("create raft log store: %w", err)
	}

	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-stable.db"))
	if err != nil {
		return nil, fmt.Errorf("create raft stable store: %w", err)
	}

	r, err := raft.NewRaft(config, &noopFSM{}, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("create raft node: %w", err)
	}

	configuration := raft.Configuration{
		Servers: []raft.Server{
			{ID: config.LocalID, Address: transport.LocalAddr()},
		},
	}
	if err := r.BootstrapCluster(configuration).Error(); err != nil && err != raft.ErrCantBootstrap {
		return nil, fmt.Errorf("bootstrap raft cluster: %w", err)
	}

	return &RaftOracle{raft: r, leaderCh: r.LeaderCh()}, nil
}

func (o *RaftOracle) IsLeader() bool {
	return o.raft.State() == raft.Leader
}

// WaitForChange forwards the next flip observed on Raft's own LeaderCh,
// translated to the boolean this process now holds leadership as.
func (o *RaftOracle) WaitForChange(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		select {
		case _, ok := <-o.leaderCh:
			if !ok {
				return
			}
			select {
			case out <- o.IsLeader():
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
	}()
	return out
}

// Shutdown leaves the Raft cluster, releasing leadership if held.
func (o *RaftOracle) Shutdown() error {
	return o.raft.Shutdown().Error()
}

// noopFSM satisfies raft.FSM without replicating any state; RaftOracle
// uses Raft purely for leader election.
type noopFSM struct{}

func (f *noopFSM) Apply(*raft.Log) interface{} { return nil }

func (f *noopFSM) Snapshot() (raft.FSMSnapshot, error) { return &noopSnapshot{}, nil }

func (f *noopFSM) Restore(rc io.ReadCloser) error { return rc.Close() }

type noopSnapshot struct{}

func (s *noopSnapshot) Persist(sink raft.SnapshotSink) error { return sink.Close() }

func (s *noopSnapshot) Release() {}
