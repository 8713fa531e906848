package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"convlo/internal/app/user"
	"convlo/internal/pkg/errs"
	"convlo/internal/pkg/logx"
)

// CreatorLeavePolicy decides what happens when a room's creator leaves it.
type CreatorLeavePolicy string

const (
	// CreatorLeaveForbid rejects the leave; the creator can only delete the room.
	CreatorLeaveForbid CreatorLeavePolicy = "forbid"

	// CreatorLeaveTransfer hands the room to the earliest-joined remaining
	// member, and deletes it when nobody remains.
	CreatorLeaveTransfer CreatorLeavePolicy = "transfer"
)

// Service is the contract the HTTP layer depends on.
type Service interface {
	// CreateChat persists a room whose creator is view.Creator and fills the
	// server-assigned ChatID and CreateAt in place.
	CreateChat(ctx context.Context, view *ChatView) error

	// FindAllChatByUser lists the rooms username belongs to, oldest first.
	FindAllChatByUser(ctx context.Context, username string) ([]ChatView, error)

	AddUserToChat(ctx context.Context, chatID int64, username string) (*ChatroomView, error)
	LeaveChat(ctx context.Context, chatID int64, username string) (*ChatroomView, error)
	DeleteChat(ctx context.Context, chatID int64) error

	// GetChatroom reads a room and its members.
	GetChatroom(ctx context.Context, chatID int64) (*ChatroomView, error)
}

// Manager implements Service on top of a Store.
type Manager struct {
	store        Store
	users        user.Directory
	creatorLeave CreatorLeavePolicy

	// now is the clock used for CreateAt.
	now func() time.Time

	logger zerolog.Logger
}

// NewManager constructs a Manager. An empty policy means CreatorLeaveForbid.
func NewManager(store Store, users user.Directory, creatorLeave CreatorLeavePolicy) *Manager {
	if creatorLeave == "" {
		creatorLeave = CreatorLeaveForbid
	}

	return &Manager{
		store:        store,
		users:        users,
		creatorLeave: creatorLeave,
		now:          time.Now,
		logger:       logx.Component("chat_manager"),
	}
}

// CreateChat implements Service.
func (m *Manager) CreateChat(ctx context.Context, view *ChatView) error {
	if strings.TrimSpace(view.Chatname) == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if view.Creator.Username == "" {
		return errs.NewError(errs.ErrUserNotFound)
	}

	// Postgres keeps microseconds; truncating keeps the echoed view equal to the stored row.
	chat := &Chat{
		Name:     view.Chatname,
		CreateAt: m.now().UTC().Truncate(time.Microsecond),
		Creator:  view.Creator,
	}

	err := m.store.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertChat(ctx, chat)
	})
	if err != nil {
		return m.translate(err, "create chat")
	}

	view.ChatID = chat.ID
	view.CreateAt = chat.CreateAt

	m.logger.Info().
		Int64("chat_id", chat.ID).
		Str("creator", chat.Creator.Username).
		Msg("chat created")
	return nil
}

// FindAllChatByUser implements Service.
func (m *Manager) FindAllChatByUser(ctx context.Context, username string) ([]ChatView, error) {
	chats, err := m.store.ListChatsByMember(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find chats of %q: %w", username, err)
	}

	views := make([]ChatView, 0, len(chats))
	for _, c := range chats {
		views = append(views, c.View())
	}
	return views, nil
}

// AddUserToChat implements Service.
func (m *Manager) AddUserToChat(ctx context.Context, chatID int64, username string) (*ChatroomView, error) {
	var room *ChatroomView

	err := m.store.WithinTx(ctx, func(tx Tx) error {
		chat, err := tx.LockChat(ctx, chatID)
		if err != nil {
			return err
		}

		if _, err := m.users.FindByUsername(ctx, username); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return ErrUnknownUser
			}
			return fmt.Errorf("resolve %q: %w", username, err)
		}

		member, err := tx.IsMember(ctx, chatID, username)
		if err != nil {
			return err
		}
		if member {
			return ErrDuplicateMember
		}

		if err := tx.AddMember(ctx, chatID, username); err != nil {
			return err
		}

		members, err := tx.ListMembers(ctx, chatID)
		if err != nil {
			return err
		}
		room = chat.RoomView(members)
		return nil
	})
	if err != nil {
		return nil, m.translate(err, "add user to chat")
	}

	m.logger.Info().
		Int64("chat_id", chatID).
		Str("username", username).
		Int("members", len(room.Members)).
		Msg("user added to chat")
	return room, nil
}

// LeaveChat implements Service.
func (m *Manager) LeaveChat(ctx context.Context, chatID int64, username string) (*ChatroomView, error) {
	var (
		room    *ChatroomView
		deleted bool
	)

	err := m.store.WithinTx(ctx, func(tx Tx) error {
		chat, err := tx.LockChat(ctx, chatID)
		if err != nil {
			return err
		}

		isCreator := chat.Creator.Username == username
		if isCreator && m.creatorLeave == CreatorLeaveForbid {
			if member, err := tx.IsMember(ctx, chatID, username); err != nil {
				return err
			} else if member {
				return errs.NewError(errs.ErrCreatorCannotLeave)
			}
		}

		removed, err := tx.RemoveMember(ctx, chatID, username)
		if err != nil {
			return err
		}
		if !removed {
			return errs.NewError(errs.ErrNotMember)
		}

		members, err := tx.ListMembers(ctx, chatID)
		if err != nil {
			return err
		}

		if isCreator {
			if len(members) == 0 {
				if _, err := tx.DeleteChat(ctx, chatID); err != nil {
					return err
				}
				deleted = true
			} else {
				if err := tx.SetCreator(ctx, chatID, members[0].Username); err != nil {
					return err
				}
				chat.Creator = members[0]
			}
		}

		room = chat.RoomView(members)
		return nil
	})
	if err != nil {
		return nil, m.translate(err, "leave chat")
	}

	m.logger.Info().
		Int64("chat_id", chatID).
		Str("username", username).
		Str("creator", room.Creator.Username).
		Bool("chat_deleted", deleted).
		Msg("user left chat")
	return room, nil
}

// DeleteChat implements Service.
func (m *Manager) DeleteChat(ctx context.Context, chatID int64) error {
	err := m.store.WithinTx(ctx, func(tx Tx) error {
		existed, err := tx.DeleteChat(ctx, chatID)
		if err != nil {
			return err
		}
		if !existed {
			return ErrNoSuchChat
		}
		return nil
	})
	if err != nil {
		return m.translate(err, "delete chat")
	}

	m.logger.Info().Int64("chat_id", chatID).Msg("chat deleted")
	return nil
}

// GetChatroom implements Service.
func (m *Manager) GetChatroom(ctx context.Context, chatID int64) (*ChatroomView, error) {
	var room *ChatroomView

	err := m.store.WithinTx(ctx, func(tx Tx) error {
		chat, err := tx.GetChat(ctx, chatID)
		if err != nil {
			return err
		}
		members, err := tx.ListMembers(ctx, chatID)
		if err != nil {
			return err
		}
		room = chat.RoomView(members)
		return nil
	})
	if err != nil {
		return nil, m.translate(err, "get chatroom")
	}
	return room, nil
}

// translate maps store sentinels to business errors and wraps everything else.
func (m *Manager) translate(err error, op string) error {
	switch {
	case errors.Is(err, ErrNoSuchChat):
		return errs.NewError(errs.ErrChatNotFound)
	case errors.Is(err, ErrUnknownUser):
		return errs.NewError(errs.ErrUserNotFound)
	case errors.Is(err, ErrDuplicateMember):
		return errs.NewError(errs.ErrAlreadyMember)
	}

	if _, ok := errs.From(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
