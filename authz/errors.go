// authz/errors.go
package authz

import "fmt"

// PermissionDeniedError means the actor lacks the capability or ownership the
// mutation requires. Not retryable; only a role change helps.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	return "permission denied: " + e.Reason
}

// AccessDeniedError means the actor failed the resource-level ownership gate.
// NoRelation is set when the actor has no ownership or related-resource link
// to the target at all; handlers surface those as 404 so probing a forbidden
// id does not confirm the resource exists.
type AccessDeniedError struct {
	ResourceType string
	ResourceID   string
	ActorID      string
	NoRelation   bool
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: actor %s has no access to %s %s", e.ActorID, e.ResourceType, e.ResourceID)
}

// NotFoundError means the resource id did not resolve at all.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceID)
}
