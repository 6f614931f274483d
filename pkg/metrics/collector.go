package metrics

import "time"

// QueueStat is a point-in-time reading for one store's queue.
type QueueStat struct {
	Store string
	Depth int
}

// LeaderSource reports current leadership state.
type LeaderSource interface {
	IsLeader() bool
}

// Collector periodically samples queue depth and leadership state into the
// registered gauges. Polling rather than push-on-change keeps it decoupled
// from the tailer and coordinator's hot paths. snapshot is injected rather
// than typed against *queue.Registry directly, so this package never
// imports the call graph it is observing.
type Collector struct {
	snapshot func() []QueueStat
	leader   LeaderSource
	stopCh   chan struct{}
}

// NewCollector creates a metrics collector over the given queue snapshot
// function and leader source.
func NewCollector(snapshot func() []QueueStat, leader LeaderSource) *Collector {
	return &Collector{
		snapshot: snapshot,
		leader:   leader,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics on a fixed interval.
func (c *Collector) Start() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectQueueMetrics()
	c.collectLeaderMetrics()
}

func (c *Collector) collectQueueMetrics() {
	if c.snapshot == nil {
		return
	}
	stats := c.snapshot()
	LiveQueuesTotal.Set(float64(len(stats)))
	for _, s := range stats {
		QueueDepth.WithLabelValues(s.Store).Set(float64(s.Depth))
	}
}

func (c *Collector) collectLeaderMetrics() {
	if c.leader == nil {
		return
	}
	if c.leader.IsLeader() {
		LeaderGauge.Set(1)
	} else {
		LeaderGauge.Set(0)
	}
}
