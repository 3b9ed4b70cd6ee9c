/*
Package scheduler provides pluggable worker-endpoint selection for the DMS
orchestrator.

A scheduling pass hands the scheduler a candidate list of WorkerEndpoints
(worker_id + data-plane address, already filtered for path eligibility and
health) and an upper bound on how many are needed; the scheduler returns an
ordered subset. The orchestrator pops one pending file per returned endpoint
and emits an Assignment.

# Policy registry

Policies are named, stateful strategies registered at package init time:

	┌──────────────────────────────────────────────────────────┐
	│                     registry (package-level)              │
	├──────────────────────────────────────────────────────────┤
	│  "round_robin" → func() Policy { return &RoundRobin{} }   │
	└──────────────────────────────────────────────────────────┘

The orchestrator looks up a policy by name once at startup via New and owns
the resulting instance exclusively — policies are not safe for concurrent
use by more than one orchestrator, and the registry itself only hands out
fresh instances, never a shared singleton.

# Round robin

RoundRobin is the reference policy. It sorts candidates by worker_id (ties
broken by address) to get a deterministic sequence, then anchors on the
*last-assigned endpoint key* rather than a positional index: worker churn
between calls means the candidate set rarely matches the previous call
exactly, so indexing into "the 3rd endpoint of last time" is meaningless.
Anchoring on identity means that while the anchor endpoint is still a
candidate, the policy resumes just after it, skipping departed workers and
including newly arrived ones in their sorted position. When the anchor
endpoint itself is absent, selection restarts at the first endpoint of the
sorted sequence.
*/
package scheduler
