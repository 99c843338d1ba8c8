// Copyright 2026 The chainsidecar Authors
// This file is part of the chainsidecar indexer.
//
// The chainsidecar indexer is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The chainsidecar indexer is distributed in the hope that it will be
// useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the chainsidecar indexer. If not, see
// <http://www.gnu.org/licenses/>.

package indexer

import "github.com/rcrowley/go-metrics"

// These gauges follow the same rcrowley/go-metrics convention the teacher's
// chaindata_fetcher.go uses for its insertion-time and retry gauges.
var (
	commitLatencyMsGauge  = metrics.NewRegisteredGauge("indexer/commitLatencyMs", nil)
	reorgDepthGauge       = metrics.NewRegisteredGauge("indexer/reorgDepth", nil)
	restoredBlocksGauge   = metrics.NewRegisteredGauge("indexer/restoredBlocks", nil)
	ingestRetryGauge      = metrics.NewRegisteredGauge("indexer/ingestRetry", nil)
	ingestedHeightGauge   = metrics.NewRegisteredGauge("indexer/ingestedHeight", nil)
)
