package chat

import (
	"context"
	"errors"

	"convlo/internal/app/user"
)

var (
	// ErrNoSuchChat is returned by a Store when a chat id has no row.
	ErrNoSuchChat = errors.New("chat does not exist")

	// ErrDuplicateMember is returned by AddMember for an existing membership.
	ErrDuplicateMember = errors.New("membership already exists")

	// ErrUnknownUser is returned when a referenced username has no directory record.
	ErrUnknownUser = errors.New("username is not registered")
)

// Store persists chats and memberships.
type Store interface {
	// WithinTx runs fn in a transaction. A non-nil error from fn rolls back
	// every change made through tx.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// ListChatsByMember returns the chats username belongs to, ordered by
	// creation time then id.
	ListChatsByMember(ctx context.Context, username string) ([]Chat, error)
}

// Tx is the set of operations available inside a Store transaction.
type Tx interface {
	// InsertChat stores c and its creator's membership, and sets c.ID.
	InsertChat(ctx context.Context, c *Chat) error

	// GetChat reads a chat or returns ErrNoSuchChat.
	GetChat(ctx context.Context, chatID int64) (*Chat, error)

	// LockChat reads a chat and holds it exclusively until the transaction ends.
	LockChat(ctx context.Context, chatID int64) (*Chat, error)

	IsMember(ctx context.Context, chatID int64, username string) (bool, error)
	AddMember(ctx context.Context, chatID int64, username string) error

	// RemoveMember reports whether a membership was removed.
	RemoveMember(ctx context.Context, chatID int64, username string) (bool, error)

	// ListMembers returns the room's members in join order.
	ListMembers(ctx context.Context, chatID int64) ([]user.UserView, error)

	SetCreator(ctx context.Context, chatID int64, username string) error

	// DeleteChat removes the chat and its memberships, reporting whether it existed.
	DeleteChat(ctx context.Context, chatID int64) (bool, error)
}
