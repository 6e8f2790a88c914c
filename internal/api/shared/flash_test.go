package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	t.Parallel()

	setRec := httptest.NewRecorder()
	SetFlash(setRec, "Subject created successfully!", FlashSuccess)

	cookies := setRec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, FlashCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	popRec := httptest.NewRecorder()

	flash := PopFlash(popRec, req)
	require.NotNil(t, flash)
	assert.Equal(t, "Subject created successfully!", flash.Message)
	assert.Equal(t, FlashSuccess, flash.Category)

	// Popping clears the cookie so the message renders exactly once.
	cleared := popRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, FlashCookieName, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestPopFlash_NoCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, PopFlash(httptest.NewRecorder(), req))
}

func TestPopFlash_MalformedCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "%%%not-base64%%%"})
	assert.Nil(t, PopFlash(httptest.NewRecorder(), req))
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/subjects/new", nil)
	Redirect(rec, req, "/subjects", "Subject created successfully!", FlashSuccess)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/subjects", rec.Header().Get("Location"))

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == FlashCookieName && cookie.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRedirect_NoMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Redirect(rec, req, "/login", "", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}
