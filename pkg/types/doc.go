// Package types defines the entity, resource and draft types shared by the
// backdesk client, the Table interface implemented by the REST transport,
// and the error taxonomy surfaced to callers.
package types
