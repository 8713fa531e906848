package req

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlo/internal/pkg/errs"
)

type sample struct {
	ChatID   *int64 `json:"chatId" validate:"required"`
	Username string `json:"username" validate:"notblank"`
}

func newJSONRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", `{"chatId":7,"username":"bob"}`, 0},
		{"zero chat id is present", `{"chatId":0,"username":"bob"}`, 0},
		{"unknown fields ignored", `{"chatId":7,"username":"bob","extra":true}`, 0},
		{"null chat id", `{"chatId":null,"username":"bob"}`, errs.ErrInvalidParams},
		{"missing chat id", `{"username":"bob"}`, errs.ErrInvalidParams},
		{"blank username", `{"chatId":7,"username":"   "}`, errs.ErrInvalidParams},
		{"missing username", `{"chatId":7}`, errs.ErrInvalidParams},
		{"empty body", ``, errs.ErrInvalidParams},
		{"malformed", `{"chatId":`, errs.ErrInvalidJSONFormat},
		{"wrong type", `{"chatId":"seven","username":"bob"}`, errs.ErrInvalidJSONFormat},
		{"trailing data", `{"chatId":7,"username":"bob"} {}`, errs.ErrExtraContentInBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst sample
			customErr := BindAndValidate(newJSONRequest(tt.body), &dst)

			if tt.wantCode == 0 {
				assert.Nil(t, customErr)
				return
			}
			require.NotNil(t, customErr)
			assert.Equal(t, tt.wantCode, customErr.Code)
		})
	}
}

func TestBindJSONRejectsOtherMediaTypes(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "text/plain")

	var dst sample
	customErr := BindJSON(r, &dst)

	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnsupportedMediaType, customErr.Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, customErr.Status)
}
