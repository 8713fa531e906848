package chat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"convlo/internal/app/user"
)

// MemoryStore is a Store kept in process memory. Transactions are serialized
// by a single mutex; each one keeps an undo log that is replayed on failure.
type MemoryStore struct {
	mu     sync.Mutex
	users  user.Directory
	nextID int64
	chats  map[int64]*memoryChat
}

type memoryChat struct {
	chat    Chat
	creator string
	members []string
}

// NewMemoryStore returns an empty MemoryStore that resolves member profiles
// through users.
func NewMemoryStore(users user.Directory) *MemoryStore {
	return &MemoryStore{
		users: users,
		chats: make(map[int64]*memoryChat),
	}
}

// WithinTx implements Store. Ids handed out by a rolled-back transaction are
// not reissued.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{s: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// ListChatsByMember implements Store.
func (s *MemoryStore) ListChatsByMember(ctx context.Context, username string) ([]Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Chat
	for _, c := range s.chats {
		if !slices.Contains(c.members, username) {
			continue
		}
		chat, err := s.project(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, chat)
	}

	slices.SortFunc(out, func(a, b Chat) int {
		if c := a.CreateAt.Compare(b.CreateAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

// profile resolves a username to its public view. A record that disappeared
// from the directory still yields its username.
func (s *MemoryStore) profile(ctx context.Context, username string) (user.UserView, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.UserView{Username: username}, nil
		}
		return user.UserView{}, fmt.Errorf("resolve member %q: %w", username, err)
	}
	return u.View(), nil
}

func (s *MemoryStore) project(ctx context.Context, c *memoryChat) (Chat, error) {
	creator, err := s.profile(ctx, c.creator)
	if err != nil {
		return Chat{}, err
	}
	chat := c.chat
	chat.Creator = creator
	return chat, nil
}

// memoryTx operates on the store while WithinTx holds its mutex.
type memoryTx struct {
	s    *MemoryStore
	undo []func()
}

// rollback reverts every recorded mutation, newest first.
func (tx *memoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// saveMembers records c's current member list for rollback.
func (tx *memoryTx) saveMembers(c *memoryChat) {
	prev := slices.Clone(c.members)
	tx.undo = append(tx.undo, func() { c.members = prev })
}

func (tx *memoryTx) lookup(chatID int64) (*memoryChat, error) {
	c, ok := tx.s.chats[chatID]
	if !ok {
		return nil, ErrNoSuchChat
	}
	return c, nil
}

func (tx *memoryTx) InsertChat(ctx context.Context, c *Chat) error {
	if _, err := tx.s.users.FindByUsername(ctx, c.Creator.Username); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUnknownUser
		}
		return err
	}

	tx.s.nextID++
	c.ID = tx.s.nextID

	id := c.ID
	tx.undo = append(tx.undo, func() { delete(tx.s.chats, id) })
	tx.s.chats[id] = &memoryChat{
		chat:    Chat{ID: c.ID, Name: c.Name, CreateAt: c.CreateAt},
		creator: c.Creator.Username,
		members: []string{c.Creator.Username},
	}
	return nil
}

func (tx *memoryTx) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	c, err := tx.lookup(chatID)
	if err != nil {
		return nil, err
	}
	chat, err := tx.s.project(ctx, c)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (tx *memoryTx) LockChat(ctx context.Context, chatID int64) (*Chat, error) {
	return tx.GetChat(ctx, chatID)
}

func (tx *memoryTx) IsMember(_ context.Context, chatID int64, username string) (bool, error) {
	c, err := tx.lookup(chatID)
	if err != nil {
		return false, err
	}
	return slices.Contains(c.members, username), nil
}

func (tx *memoryTx) AddMember(ctx context.Context, chatID int64, username string) error {
	c, err := tx.lookup(chatID)
	if err != nil {
		return err
	}
	if slices.Contains(c.members, username) {
		return ErrDuplicateMember
	}
	if _, err := tx.s.users.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUnknownUser
		}
		return err
	}
	tx.saveMembers(c)
	c.members = append(c.members, username)
	return nil
}

func (tx *memoryTx) RemoveMember(_ context.Context, chatID int64, username string) (bool, error) {
	c, err := tx.lookup(chatID)
	if err != nil {
		return false, err
	}
	i := slices.Index(c.members, username)
	if i < 0 {
		return false, nil
	}
	tx.saveMembers(c)
	c.members = slices.Delete(c.members, i, i+1)
	return true, nil
}

func (tx *memoryTx) ListMembers(ctx context.Context, chatID int64) ([]user.UserView, error) {
	c, err := tx.lookup(chatID)
	if err != nil {
		return nil, err
	}
	members := make([]user.UserView, 0, len(c.members))
	for _, username := range c.members {
		view, err := tx.s.profile(ctx, username)
		if err != nil {
			return nil, err
		}
		members = append(members, view)
	}
	return members, nil
}

func (tx *memoryTx) SetCreator(_ context.Context, chatID int64, username string) error {
	c, err := tx.lookup(chatID)
	if err != nil {
		return err
	}
	prev := c.creator
	tx.undo = append(tx.undo, func() { c.creator = prev })
	c.creator = username
	return nil
}

func (tx *memoryTx) DeleteChat(_ context.Context, chatID int64) (bool, error) {
	c, ok := tx.s.chats[chatID]
	if !ok {
		return false, nil
	}
	tx.undo = append(tx.undo, func() { tx.s.chats[chatID] = c })
	delete(tx.s.chats, chatID)
	return true, nil
}
