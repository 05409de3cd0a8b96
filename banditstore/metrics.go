// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package banditstore

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/banditdb/utils/metric"
	"github.com/ava-labs/banditdb/utils/wrappers"
)

type metrics struct {
	inits   prometheus.Counter
	records prometheus.Counter
	sets    prometheus.Counter
	picks   prometheus.Counter
	drops   prometheus.Counter

	keys      prometheus.Gauge
	footprint prometheus.Gauge

	snapshotBytes prometheus.Histogram
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		inits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inits",
			Help:      "Number of bandit initializations",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Number of recorded rewards",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets",
			Help:      "Number of arm stat overwrites",
		}),
		picks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks",
			Help:      "Number of arm selections",
		}),
		drops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drops",
			Help:      "Number of dropped bandits",
		}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keys",
			Help:      "Number of live bandit keys",
		}),
		footprint: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "footprint_bytes",
			Help:      "Approximate memory held by live bandits",
		}),
		snapshotBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Size of persisted bandit snapshots",
			Buckets:   metric.BytesBuckets,
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.inits),
		registerer.Register(m.records),
		registerer.Register(m.sets),
		registerer.Register(m.picks),
		registerer.Register(m.drops),
		registerer.Register(m.keys),
		registerer.Register(m.footprint),
		registerer.Register(m.snapshotBytes),
	)
	return m, errs.Err
}
