package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

func (s *Server) tokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func (s *Server) setTokenCookies(w http.ResponseWriter, pair services.TokenPair) {
	http.SetCookie(w, s.tokenCookie(common.AccessTokenCookieName, pair.AccessToken, int(s.cookies.AccessTTL.Seconds())))
	http.SetCookie(w, s.tokenCookie(common.RefreshTokenCookieName, pair.RefreshToken, int(s.cookies.RefreshTTL.Seconds())))
}

func (s *Server) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, s.tokenCookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(w, s.tokenCookie(common.RefreshTokenCookieName, "", -1))
}
