package chat

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"convlo/internal/app/db"
	"convlo/internal/app/user"
)

const selectChat = `
	SELECT c.id, c.chatname, c.create_at, u.username, u.nick_name, u.gender
	FROM chats c
	JOIN users u ON u.username = c.creator_username`

// PostgresStore is a Store backed by the chats and chat_members tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store using pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithinTx implements Store.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&postgresTx{tx: tx})
	})
}

// ListChatsByMember implements Store.
func (s *PostgresStore) ListChatsByMember(ctx context.Context, username string) ([]Chat, error) {
	rows, err := s.pool.Query(ctx, selectChat+`
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.username = $1
		ORDER BY c.create_at, c.id`, username)
	if err != nil {
		return nil, fmt.Errorf("list chats of %q: %w", username, err)
	}

	chats, err := pgx.CollectRows(rows, scanChat)
	if err != nil {
		return nil, fmt.Errorf("list chats of %q: %w", username, err)
	}
	return chats, nil
}

func scanChat(row pgx.CollectableRow) (Chat, error) {
	var c Chat
	err := row.Scan(&c.ID, &c.Name, &c.CreateAt, &c.Creator.Username, &c.Creator.NickName, &c.Creator.Gender)
	return c, err
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) InsertChat(ctx context.Context, c *Chat) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO chats (chatname, creator_username, create_at)
		VALUES ($1, $2, $3)
		RETURNING id`, c.Name, c.Creator.Username, c.CreateAt).Scan(&c.ID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrUnknownUser
		}
		return fmt.Errorf("insert chat: %w", err)
	}

	return t.AddMember(ctx, c.ID, c.Creator.Username)
}

func (t *postgresTx) getChat(ctx context.Context, chatID int64, suffix string) (*Chat, error) {
	rows, err := t.tx.Query(ctx, selectChat+` WHERE c.id = $1`+suffix, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat %d: %w", chatID, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanChat)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNoSuchChat
		}
		return nil, fmt.Errorf("get chat %d: %w", chatID, err)
	}
	return &c, nil
}

func (t *postgresTx) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	return t.getChat(ctx, chatID, "")
}

func (t *postgresTx) LockChat(ctx context.Context, chatID int64) (*Chat, error) {
	return t.getChat(ctx, chatID, " FOR UPDATE OF c")
}

func (t *postgresTx) IsMember(ctx context.Context, chatID int64, username string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chat_members WHERE chat_id = $1 AND username = $2)`,
		chatID, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership of %q in %d: %w", username, chatID, err)
	}
	return exists, nil
}

func (t *postgresTx) AddMember(ctx context.Context, chatID int64, username string) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO chat_members (chat_id, username) VALUES ($1, $2)`, chatID, username)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		return ErrDuplicateMember
	case db.IsForeignKeyViolation(err):
		return ErrUnknownUser
	default:
		return fmt.Errorf("add %q to chat %d: %w", username, chatID, err)
	}
}

func (t *postgresTx) RemoveMember(ctx context.Context, chatID int64, username string) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		DELETE FROM chat_members WHERE chat_id = $1 AND username = $2`, chatID, username)
	if err != nil {
		return false, fmt.Errorf("remove %q from chat %d: %w", username, chatID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (t *postgresTx) ListMembers(ctx context.Context, chatID int64) ([]user.UserView, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT u.username, u.nick_name, u.gender
		FROM chat_members m
		JOIN users u ON u.username = m.username
		WHERE m.chat_id = $1
		ORDER BY m.id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list members of chat %d: %w", chatID, err)
	}

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.UserView, error) {
		var v user.UserView
		err := row.Scan(&v.Username, &v.NickName, &v.Gender)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("list members of chat %d: %w", chatID, err)
	}
	return members, nil
}

func (t *postgresTx) SetCreator(ctx context.Context, chatID int64, username string) error {
	if _, err := t.tx.Exec(ctx, `
		UPDATE chats SET creator_username = $2 WHERE id = $1`, chatID, username); err != nil {
		return fmt.Errorf("set creator of chat %d: %w", chatID, err)
	}
	return nil
}

func (t *postgresTx) DeleteChat(ctx context.Context, chatID int64) (bool, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM chats WHERE id = $1`, chatID)
	if err != nil {
		return false, fmt.Errorf("delete chat %d: %w", chatID, err)
	}
	return tag.RowsAffected() > 0, nil
}
