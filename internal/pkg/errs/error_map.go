package errs

import "net/http"

// errorMap holds the template for every known code. A zero Status means 400.
var errorMap = map[int]CustomError{
	ErrInvalidParams:        {Code: ErrInvalidParams, Kind: KindValidation, Message: "請求參數不完整"},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Kind: KindValidation, Message: "不支援的請求格式", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Kind: KindValidation, Message: "請求格式錯誤"},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Kind: KindValidation, Message: "請求格式錯誤"},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Kind: KindValidation, Message: "請求過於頻繁，請稍後再試", Status: http.StatusTooManyRequests},

	ErrChatNotFound:       {Code: ErrChatNotFound, Kind: KindBusiness, Message: "聊天室不存在"},
	ErrAlreadyMember:      {Code: ErrAlreadyMember, Kind: KindBusiness, Message: "用戶已在聊天室"},
	ErrNotMember:          {Code: ErrNotMember, Kind: KindBusiness, Message: "用戶不在聊天室"},
	ErrCreatorCannotLeave: {Code: ErrCreatorCannotLeave, Kind: KindBusiness, Message: "創建者不能離開聊天室"},
	ErrPermissionDenied:   {Code: ErrPermissionDenied, Kind: KindBusiness, Message: "無權限操作此聊天室"},

	ErrUserNotFound:       {Code: ErrUserNotFound, Kind: KindBusiness, Message: "此會員不存在"},
	ErrUsernameTaken:      {Code: ErrUsernameTaken, Kind: KindBusiness, Message: "用戶名已被使用"},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Kind: KindBusiness, Message: "帳號或密碼錯誤"},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Kind: KindValidation, Message: "用戶名格式不正確"},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Kind: KindValidation, Message: "密碼長度需介於 6 到 50 個字元"},
	ErrUnauthorized:       {Code: ErrUnauthorized, Kind: KindIdentity, Message: "請先登入", Status: http.StatusUnauthorized},

	ErrUnknown: {Code: ErrUnknown, Kind: KindInternal, Message: "系統錯誤，請稍後再試", Status: http.StatusInternalServerError},
}
