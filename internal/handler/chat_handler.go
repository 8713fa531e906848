/*
Package handler provides the HTTP handlers and routing setup for the Convlo server.

This file holds the chat membership endpoints mounted under /home/chat.
*/
package handler

import (
	"errors"
	"net/http"
	"strings"

	"convlo/internal/app/chat"
	"convlo/internal/app/user"
	"convlo/internal/pkg/errs"
	"convlo/internal/pkg/logx"
	"convlo/internal/pkg/metrics"
	"convlo/internal/pkg/req"
	"convlo/internal/pkg/resp"
)

const (
	msgChatCreated  = "創建成功"
	msgChatsListed  = "獲取聊天室成功"
	msgUserAdded    = "用戶成功加入聊天室"
	msgUserLeft     = "用戶成功離開聊天室"
	msgChatDeleted  = "聊天室已成功刪除"
	prefixAddUser   = "加入失敗: "
	prefixLeaveChat = "離開失敗: "
	prefixDelete    = "刪除失敗: "
)

// Operation labels for metrics and logs.
const (
	opCreate  = "create"
	opList    = "list"
	opAddUser = "add_user"
	opLeave   = "leave"
	opDelete  = "delete"
)

// CreateChatRequest is the body of POST /home/chat. Only chatname is read;
// the server assigns chatId, createAt and creator.
type CreateChatRequest struct {
	Chatname string `json:"chatname" validate:"notblank"`
}

// AddUserRequest is the body of POST /home/chat/addUser.
type AddUserRequest struct {
	ChatID   *int64 `json:"chatId" validate:"required"`
	Username string `json:"username" validate:"notblank"`
}

// LeaveChatRequest is the body of POST /home/chat/leave.
type LeaveChatRequest struct {
	ChatID   *int64 `json:"chatId" validate:"required"`
	Username string `json:"username" validate:"notblank"`
}

// DeleteChatRequest is the body of POST /home/chat/delete.
type DeleteChatRequest struct {
	ChatID *int64 `json:"chatId" validate:"required"`
}

// HandleCreateChat creates a room owned by the authenticated caller.
func HandleCreateChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := deps.identity().Username(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateChatRequest
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			metrics.ObserveChatOperation(opCreate, metrics.OutcomeInvalid)
			resp.RespondError(w, r, customErr)
			return
		}

		creator, err := deps.Users.FindByUsername(r.Context(), caller)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				logx.Ctx(r.Context()).Warn().Str("username", caller).Msg("create chat: caller has no directory record")
				metrics.ObserveChatOperation(opCreate, metrics.OutcomeRejected)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			respondInternal(w, r, opCreate, err)
			return
		}

		view := chat.ChatView{
			Chatname: input.Chatname,
			Creator:  creator.View(),
		}

		if err := deps.Chats.CreateChat(r.Context(), &view); err != nil {
			if customErr, ok := errs.From(err); ok && customErr.Kind != errs.KindInternal {
				metrics.ObserveChatOperation(opCreate, metrics.OutcomeRejected)
				resp.RespondError(w, r, customErr)
				return
			}
			respondInternal(w, r, opCreate, err)
			return
		}

		metrics.ObserveChatOperation(opCreate, metrics.OutcomeSuccess)
		resp.RespondSuccess(w, r, msgChatCreated, view)
	}
}

// HandleListUserChats lists the rooms the authenticated caller belongs to.
func HandleListUserChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := deps.identity().Username(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		chats, err := deps.Chats.FindAllChatByUser(r.Context(), caller)
		if err != nil {
			respondInternal(w, r, opList, err)
			return
		}

		views := make([]chat.ChatView, 0, len(chats))
		for _, c := range chats {
			views = append(views, chat.ChatView{
				ChatID:   c.ChatID,
				Chatname: c.Chatname,
				CreateAt: c.CreateAt,
				Creator:  c.Creator,
			})
		}

		metrics.ObserveChatOperation(opList, metrics.OutcomeSuccess)
		resp.RespondSuccess(w, r, msgChatsListed, views)
	}
}

// HandleAddUserToChat adds the named user to a room.
func HandleAddUserToChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := deps.identity().Username(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input AddUserRequest
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			metrics.ObserveChatOperation(opAddUser, metrics.OutcomeInvalid)
			resp.RespondError(w, r, customErr)
			return
		}
		username := strings.TrimSpace(input.Username)

		if err := deps.Authorizer.Authorize(r.Context(), chat.ActionAddUser, caller, *input.ChatID, username); err != nil {
			respondMembershipError(w, r, opAddUser, prefixAddUser, err)
			return
		}

		room, err := deps.Chats.AddUserToChat(r.Context(), *input.ChatID, username)
		if err != nil {
			respondMembershipError(w, r, opAddUser, prefixAddUser, err)
			return
		}

		metrics.ObserveChatOperation(opAddUser, metrics.OutcomeSuccess)
		resp.RespondSuccess(w, r, msgUserAdded, room)
	}
}

// HandleLeaveChat removes the named user from a room.
func HandleLeaveChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := deps.identity().Username(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input LeaveChatRequest
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			metrics.ObserveChatOperation(opLeave, metrics.OutcomeInvalid)
			resp.RespondError(w, r, customErr)
			return
		}
		username := strings.TrimSpace(input.Username)

		if err := deps.Authorizer.Authorize(r.Context(), chat.ActionLeave, caller, *input.ChatID, username); err != nil {
			respondMembershipError(w, r, opLeave, prefixLeaveChat, err)
			return
		}

		room, err := deps.Chats.LeaveChat(r.Context(), *input.ChatID, username)
		if err != nil {
			respondMembershipError(w, r, opLeave, prefixLeaveChat, err)
			return
		}

		metrics.ObserveChatOperation(opLeave, metrics.OutcomeSuccess)
		resp.RespondSuccess(w, r, msgUserLeft, room)
	}
}

// HandleDeleteChat deletes a room and all of its memberships.
func HandleDeleteChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := deps.identity().Username(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input DeleteChatRequest
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			metrics.ObserveChatOperation(opDelete, metrics.OutcomeInvalid)
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Authorizer.Authorize(r.Context(), chat.ActionDelete, caller, *input.ChatID, ""); err != nil {
			respondMembershipError(w, r, opDelete, prefixDelete, err)
			return
		}

		if err := deps.Chats.DeleteChat(r.Context(), *input.ChatID); err != nil {
			respondMembershipError(w, r, opDelete, prefixDelete, err)
			return
		}

		logx.Ctx(r.Context()).Info().Int64("chat_id", *input.ChatID).Str("caller", caller).Msg("chat deleted")
		metrics.ObserveChatOperation(opDelete, metrics.OutcomeSuccess)
		resp.RespondSuccess[any](w, r, msgChatDeleted, nil)
	}
}

// respondMembershipError reports a business failure as "{operation}失敗: {detail}"
// and anything unclassified as a 500.
func respondMembershipError(w http.ResponseWriter, r *http.Request, op, prefix string, err error) {
	customErr, ok := errs.From(err)
	if !ok || customErr.Kind == errs.KindInternal {
		respondInternal(w, r, op, err)
		return
	}

	logx.Ctx(r.Context()).Info().
		Str("operation", op).
		Int("code", customErr.Code).
		Msg("chat operation rejected")

	metrics.ObserveChatOperation(op, metrics.OutcomeRejected)
	resp.Write(w, r, resp.Error(customErr.Status, prefix+customErr.Message))
}

func respondInternal(w http.ResponseWriter, r *http.Request, op string, err error) {
	logx.Ctx(r.Context()).Error().Err(err).Str("operation", op).Msg("chat operation failed")
	metrics.ObserveChatOperation(op, metrics.OutcomeFailed)
	resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
}
