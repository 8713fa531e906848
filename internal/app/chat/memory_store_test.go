package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlo/internal/app/user"
)

func TestMemoryStoreRollsBackFailedTx(t *testing.T) {
	ctx := context.Background()
	dir := seedUsers(t, "alice", "bob")
	store := NewMemoryStore(dir)

	c := &Chat{Name: "general", CreateAt: time.Now().UTC(), Creator: user.UserView{Username: "alice"}}
	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertChat(ctx, c)
	}))

	abort := errors.New("abort")
	err := store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.AddMember(ctx, c.ID, "bob"); err != nil {
			return err
		}
		if _, err := tx.DeleteChat(ctx, c.ID); err != nil {
			return err
		}
		return abort
	})
	assert.ErrorIs(t, err, abort)

	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error {
		members, err := tx.ListMembers(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, usernames(members))
		return nil
	}))
}

func TestMemoryStoreResolvesProfiles(t *testing.T) {
	ctx := context.Background()
	dir := seedUsers(t, "alice")
	store := NewMemoryStore(dir)

	c := &Chat{Name: "general", CreateAt: time.Now().UTC(), Creator: user.UserView{Username: "alice"}}
	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertChat(ctx, c)
	}))

	chats, err := store.ListChatsByMember(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, user.UserView{Username: "alice", NickName: "alice_nick", Gender: "F"}, chats[0].Creator)
}

func TestMemoryStoreRejectsUnknownUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seedUsers(t, "alice"))

	err := store.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertChat(ctx, &Chat{Name: "x", Creator: user.UserView{Username: "ghost"}})
	})
	assert.ErrorIs(t, err, ErrUnknownUser)

	c := &Chat{Name: "x", Creator: user.UserView{Username: "alice"}}
	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error { return tx.InsertChat(ctx, c) }))

	err = store.WithinTx(ctx, func(tx Tx) error { return tx.AddMember(ctx, c.ID, "ghost") })
	assert.ErrorIs(t, err, ErrUnknownUser)

	err = store.WithinTx(ctx, func(tx Tx) error { return tx.AddMember(ctx, c.ID, "alice") })
	assert.ErrorIs(t, err, ErrDuplicateMember)

	err = store.WithinTx(ctx, func(tx Tx) error {
		_, err := tx.GetChat(ctx, c.ID+1)
		return err
	})
	assert.ErrorIs(t, err, ErrNoSuchChat)
}

func TestMemoryStoreHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore(user.NewMemoryDirectory()).WithinTx(ctx, func(Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreRollbackRestoresEveryMutation(t *testing.T) {
	ctx := context.Background()
	dir := seedUsers(t, "alice", "bob", "carol")
	store := NewMemoryStore(dir)

	room := &Chat{Name: "general", CreateAt: time.Now().UTC(), Creator: user.UserView{Username: "alice"}}
	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error {
		if err := tx.InsertChat(ctx, room); err != nil {
			return err
		}
		return tx.AddMember(ctx, room.ID, "bob")
	}))

	abort := errors.New("abort")
	var discarded Chat
	err := store.WithinTx(ctx, func(tx Tx) error {
		discarded = Chat{Name: "scratch", CreateAt: time.Now().UTC(), Creator: user.UserView{Username: "carol"}}
		if err := tx.InsertChat(ctx, &discarded); err != nil {
			return err
		}
		if err := tx.AddMember(ctx, room.ID, "carol"); err != nil {
			return err
		}
		if _, err := tx.RemoveMember(ctx, room.ID, "alice"); err != nil {
			return err
		}
		if err := tx.SetCreator(ctx, room.ID, "bob"); err != nil {
			return err
		}
		if _, err := tx.DeleteChat(ctx, room.ID); err != nil {
			return err
		}
		return abort
	})
	require.ErrorIs(t, err, abort)

	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error {
		got, err := tx.GetChat(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Creator.Username)

		members, err := tx.ListMembers(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, usernames(members))

		_, err = tx.GetChat(ctx, discarded.ID)
		assert.ErrorIs(t, err, ErrNoSuchChat)
		return nil
	}))

	next := &Chat{Name: "after", Creator: user.UserView{Username: "alice"}}
	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error { return tx.InsertChat(ctx, next) }))
	assert.Greater(t, next.ID, discarded.ID)
}
