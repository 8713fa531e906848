/*
Package chat owns chat rooms and their membership.

A Manager applies every state transition of a room (create, add member, leave,
delete) inside one Store transaction that locks the room, and returns outward
views that never expose storage details. Business failures are reported as
*errs.CustomError values of KindBusiness; any other error is an infrastructure
failure.
*/
package chat

import (
	"time"

	"convlo/internal/app/user"
)

// Chat is a persisted room as read from a Store.
type Chat struct {
	ID       int64
	Name     string
	CreateAt time.Time
	Creator  user.UserView
}

// ChatView is the outward projection of a room without its membership.
type ChatView struct {
	ChatID   int64         `json:"chatId,omitempty"`
	Chatname string        `json:"chatname"`
	CreateAt time.Time     `json:"createAt"`
	Creator  user.UserView `json:"creator"`
}

// ChatroomView is the outward projection of a room including its members,
// ordered by join time.
type ChatroomView struct {
	ChatID   int64           `json:"chatId"`
	Chatname string          `json:"chatname"`
	CreateAt time.Time       `json:"createAt"`
	Creator  user.UserView   `json:"creator"`
	Members  []user.UserView `json:"members"`
}

// View projects c into a fresh ChatView.
func (c Chat) View() ChatView {
	return ChatView{
		ChatID:   c.ID,
		Chatname: c.Name,
		CreateAt: c.CreateAt,
		Creator:  c.Creator,
	}
}

// RoomView projects c and its members into a ChatroomView.
func (c Chat) RoomView(members []user.UserView) *ChatroomView {
	if members == nil {
		members = []user.UserView{}
	}
	return &ChatroomView{
		ChatID:   c.ID,
		Chatname: c.Name,
		CreateAt: c.CreateAt,
		Creator:  c.Creator,
		Members:  members,
	}
}

// HasMember reports whether username appears in the room's member list.
func (v *ChatroomView) HasMember(username string) bool {
	for _, m := range v.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}
