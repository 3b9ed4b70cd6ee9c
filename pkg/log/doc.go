/*
Package log provides structured logging for the DMS master using zerolog.

A single global Logger is configured once via Init with a level and an
output format (JSON for production, a console writer for local runs).
Call sites derive child loggers carrying a fixed field — WithComponent for
a subsystem name, WithRequestID / WithWorkerID for request- and
worker-scoped fields — rather than repeating Str() calls everywhere.
*/
package log
