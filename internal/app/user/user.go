/*
Package user holds the user directory: the records behind usernames and the
public projection of those records.
*/
package user

import "time"

// User is a directory record.
type User struct {
	Username     string
	NickName     string
	Gender       string
	PasswordHash string
	CreatedAt    time.Time
}

// UserView is the outward projection of a User. It never carries credentials.
type UserView struct {
	Username string `json:"username"`
	NickName string `json:"nickName"`
	Gender   string `json:"gender"`
}

// View projects u into a UserView.
func (u User) View() UserView {
	return UserView{
		Username: u.Username,
		NickName: u.NickName,
		Gender:   u.Gender,
	}
}
