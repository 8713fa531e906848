package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlo/internal/pkg/errs"
)

func TestAuthorizerOpenAllowsEverything(t *testing.T) {
	m := newTestManager(t, CreatorLeaveForbid, "alice", "bob")
	room := createRoom(t, m, "alice", "general")
	a := NewAuthorizer("", m)

	assert.Equal(t, MembershipOpen, a.Policy())
	for _, action := range []Action{ActionAddUser, ActionLeave, ActionDelete} {
		assert.NoError(t, a.Authorize(context.Background(), action, "bob", room.ChatID, "alice"))
	}
}

func TestAuthorizerStrict(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, CreatorLeaveForbid, "alice", "bob", "carol")
	room := createRoom(t, m, "alice", "general")
	_, err := m.AddUserToChat(ctx, room.ChatID, "bob")
	require.NoError(t, err)

	a := NewAuthorizer(MembershipStrict, m)

	tests := []struct {
		name   string
		action Action
		caller string
		target string
		chatID int64
		code   int
	}{
		{name: "member adds", action: ActionAddUser, caller: "bob", target: "carol", chatID: room.ChatID},
		{name: "outsider adds", action: ActionAddUser, caller: "carol", target: "carol", chatID: room.ChatID, code: errs.ErrPermissionDenied},
		{name: "self leaves", action: ActionLeave, caller: "bob", target: "bob", chatID: room.ChatID},
		{name: "leave for another", action: ActionLeave, caller: "alice", target: "bob", chatID: room.ChatID, code: errs.ErrPermissionDenied},
		{name: "creator deletes", action: ActionDelete, caller: "alice", chatID: room.ChatID},
		{name: "member deletes", action: ActionDelete, caller: "bob", chatID: room.ChatID, code: errs.ErrPermissionDenied},
		{name: "missing room", action: ActionDelete, caller: "alice", chatID: 404, code: errs.ErrChatNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Authorize(ctx, tt.action, tt.caller, tt.chatID, tt.target)
			if tt.code == 0 {
				assert.NoError(t, err)
				return
			}
			requireCode(t, err, tt.code)
		})
	}
}
