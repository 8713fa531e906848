package chat

import (
	"context"
	"fmt"

	"convlo/internal/pkg/errs"
)

// MembershipPolicy selects how strictly the caller must relate to the room
// and user named in a membership request.
type MembershipPolicy string

const (
	// MembershipOpen enforces no relationship between caller and request body.
	MembershipOpen MembershipPolicy = "open"

	// MembershipStrict requires membership to add users, self-identity to
	// leave and creatorship to delete.
	MembershipStrict MembershipPolicy = "strict"
)

// Action is a membership operation subject to authorization.
type Action string

const (
	ActionAddUser Action = "add_user"
	ActionLeave   Action = "leave"
	ActionDelete  Action = "delete"
)

// Authorizer checks callers against a MembershipPolicy.
type Authorizer struct {
	policy MembershipPolicy
	chats  Service
}

// NewAuthorizer returns an Authorizer. An empty policy means MembershipOpen.
func NewAuthorizer(policy MembershipPolicy, chats Service) *Authorizer {
	if policy == "" {
		policy = MembershipOpen
	}
	return &Authorizer{policy: policy, chats: chats}
}

// Policy returns the configured policy.
func (a *Authorizer) Policy() MembershipPolicy {
	return a.policy
}

// Authorize returns nil when caller may perform action on chatID with target
// as the body username. Denials are ErrPermissionDenied; a missing room is
// ErrChatNotFound.
//
// The check is a read made before the mutation and is not atomic with it.
func (a *Authorizer) Authorize(ctx context.Context, action Action, caller string, chatID int64, target string) error {
	if a == nil || a.policy != MembershipStrict {
		return nil
	}

	if action == ActionLeave {
		if caller != target {
			return errs.NewError(errs.ErrPermissionDenied)
		}
		return nil
	}

	room, err := a.chats.GetChatroom(ctx, chatID)
	if err != nil {
		return err
	}

	switch action {
	case ActionAddUser:
		if !room.HasMember(caller) {
			return errs.NewError(errs.ErrPermissionDenied)
		}
	case ActionDelete:
		if room.Creator.Username != caller {
			return errs.NewError(errs.ErrPermissionDenied)
		}
	default:
		return fmt.Errorf("authorize: unknown action %q", action)
	}
	return nil
}
