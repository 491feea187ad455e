package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

type registerRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	UserName   string `json:"username"`
	Password   string `json:"password"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
}

type loginRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

type coverImageRequest struct {
	CoverImage string `json:"coverImage"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		UserName:   req.UserName,
		Password:   req.Password,
		Avatar:     req.Avatar,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.LoginByFields(r.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		// unknown users and wrong passwords look the same from outside
		if errors.Is(err, common.ErrorNotFound) {
			err = common.ErrInvalidCredentials
		}
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookies(w, res.TokenPair)
	writeSuccess(w, http.StatusOK, "User logged in successfully", res)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decode(r, &req, true); err != nil {
			s.writeError(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	pair, err := s.users.Refresh(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookies(w, *pair)
	writeSuccess(w, http.StatusOK, "Access token refreshed", pair)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if err := s.users.Logout(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.clearTokenCookies(w)
	writeSuccess(w, http.StatusOK, "User logged out", struct{}{})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, _ := identityFrom(r.Context())
	if err := s.users.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password changed successfully", struct{}{})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	user, err := s.users.CurrentUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Current user fetched successfully", user)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, _ := identityFrom(r.Context())
	user, err := s.users.UpdateAccount(r.Context(), id, req.FullName, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Account details updated successfully", user)
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, _ := identityFrom(r.Context())
	user, err := s.users.UpdateAvatar(r.Context(), id, req.Avatar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Avatar updated successfully", user)
}

func (s *Server) handleUpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	var req coverImageRequest
	if err := decode(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, _ := identityFrom(r.Context())
	user, err := s.users.UpdateCoverImage(r.Context(), id, req.CoverImage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Cover image updated successfully", user)
}

func (s *Server) handleChannelProfile(w http.ResponseWriter, r *http.Request) {
	var viewer *models.Identity
	if id, ok := identityFrom(r.Context()); ok {
		viewer = &id
	}

	profile, err := s.channels.Profile(r.Context(), mux.Vars(r)["username"], viewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User channel fetched successfully", profile)
}

func (s *Server) handleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	subscribed, err := s.channels.ToggleSubscription(r.Context(), id, mux.Vars(r)["channelId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg := "Unsubscribed successfully"
	if subscribed {
		msg = "Subscribed successfully"
	}
	writeSuccess(w, http.StatusOK, msg, map[string]bool{"subscribed": subscribed})
}

func (s *Server) handleChannelSubscribers(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	subs, err := s.channels.Subscribers(r.Context(), id, mux.Vars(r)["channelId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Channel subscribers fetched successfully", subs)
}

func (s *Server) handleSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subs, err := s.channels.SubscribedChannels(r.Context(), mux.Vars(r)["subscriberId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Subscribed channels fetched successfully", subs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, h := range s.health {
		if err := h.Ping(r.Context()); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			writeFailure(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
	}
	writeSuccess(w, http.StatusOK, "OK", map[string]string{"status": "OK"})
}
