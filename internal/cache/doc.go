// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

/*
Package cache provides a small thread-safe in-memory cache with TTL support.

The ingestion service keeps the most recent report listing here so that
dashboard reloads do not scan the result store each time. Accepted
submissions call Clear, which also advances the generation counter:

	c := cache.New("report_list", 30*time.Second, nil)

	gen := c.Generation()
	reports, err := store.ListReports(ctx)
	if err == nil {
		c.SetIfGeneration("reports", reports, gen)
	}

A listing read before an insert and stored after it is rejected by
SetIfGeneration, so a stale snapshot never outlives the insert that made it
stale.

Expiry is lazy. Get drops an expired entry when it sees one, and Prune
sweeps the whole map. The clock is injectable (k8s.io/utils/clock) so tests
step time instead of sleeping.

Lookups are counted in streamgauge_cache_lookups_total{cache,result}.
*/
package cache
