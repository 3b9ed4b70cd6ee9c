/*
Package pathresolve answers one question for the orchestrator: given an
absolute path and the current worker registry, which workers can reach it?

# Mount coverage

A mount M covers a path P iff M == P or M is a proper ancestor of P, compared
component-by-component after splitting on "/". There is no symlink
resolution and no case folding: the master never touches the filesystem
itself, it only reasons about the prefixes workers advertise in their
heartbeats.

# Ordering

Resolve returns worker IDs in the insertion order of the worker registry it
is given, deduplicated, because a worker may advertise more than one
covering mount. An empty result means no eligible worker, which the
orchestrator's scheduling pass treats as a request-level failure rather than
a retryable condition.
*/
package pathresolve
