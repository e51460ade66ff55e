package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasetyow/galaxytix/internal/config"
	"github.com/prasetyow/galaxytix/internal/model"
	"github.com/prasetyow/galaxytix/internal/repository"
	"github.com/prasetyow/galaxytix/internal/utils"
)

type fakeUsers struct {
	user      model.User
	createErr error
}

func (f *fakeUsers) Create(ctx context.Context, username, password, role string, cost int) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.user.ID, nil
}

func (f *fakeUsers) VerifyCredentials(ctx context.Context, username, password string) (model.User, error) {
	if username != f.user.Username || password != "correct-pass" {
		return model.User{}, repository.ErrInvalidCredentials
	}
	return f.user, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if id != f.user.ID {
		return model.User{}, repository.ErrNotFound
	}
	return f.user, nil
}

type fakeTokens struct {
	liveHash   string
	userID     uint64
	revokeErr  error
	revoked    []string
	revokedAll []uint64
	stored     []string
}

func (f *fakeTokens) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	f.stored = append(f.stored, tokenHash)
	return nil
}

func (f *fakeTokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	if tokenHash != f.liveHash {
		return 0, repository.ErrNotFound
	}
	return f.userID, nil
}

func (f *fakeTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, tokenHash)
	return nil
}

func (f *fakeTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func testAuthHandler(tokens *fakeTokens) *AuthHandler {
	return NewAuthHandler(config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}, &fakeUsers{user: model.User{ID: 7, Username: "rina", Role: model.RoleUser}}, tokens)
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return rec
}

func TestRefreshRotation(t *testing.T) {
	raw := "old-refresh-token"
	tokens := &fakeTokens{liveHash: utils.HashRefreshRaw(raw), userID: 7}
	h := testAuthHandler(tokens)

	rec := postJSON(t, h.Refresh, `{"refresh_token":"`+raw+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != tokens.liveHash {
		t.Errorf("revoked = %v, want the presented hash", tokens.revoked)
	}
	if len(tokens.stored) != 1 {
		t.Fatalf("stored %d hashes, want 1", len(tokens.stored))
	}
	if tokens.stored[0] == tokens.liveHash {
		t.Error("rotation reissued the same token hash")
	}
}

func TestRefreshRevokeFailure(t *testing.T) {
	raw := "old-refresh-token"
	tokens := &fakeTokens{
		liveHash:  utils.HashRefreshRaw(raw),
		userID:    7,
		revokeErr: errors.New("connection reset"),
	}
	h := testAuthHandler(tokens)

	rec := postJSON(t, h.Refresh, `{"refresh_token":"`+raw+`"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the old token cannot be revoked", rec.Code)
	}
	// No new pair may be issued while the presented token is still live.
	if len(tokens.stored) != 0 {
		t.Errorf("stored %d hashes after failed revoke, want 0", len(tokens.stored))
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	h := testAuthHandler(&fakeTokens{liveHash: utils.HashRefreshRaw("other"), userID: 7})
	rec := postJSON(t, h.Refresh, `{"refresh_token":"guessed"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	raw := "live-token"

	t.Run("single session", func(t *testing.T) {
		tokens := &fakeTokens{liveHash: utils.HashRefreshRaw(raw), userID: 7}
		rec := postJSON(t, testAuthHandler(tokens).Logout, `{"refresh_token":"`+raw+`"}`)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if len(tokens.revoked) != 1 || len(tokens.revokedAll) != 0 {
			t.Errorf("revoked=%v revokedAll=%v, want exactly the presented token", tokens.revoked, tokens.revokedAll)
		}
	})

	t.Run("all sessions", func(t *testing.T) {
		tokens := &fakeTokens{liveHash: utils.HashRefreshRaw(raw), userID: 7}
		rec := postJSON(t, testAuthHandler(tokens).Logout, `{"refresh_token":"`+raw+`","all":true}`)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if len(tokens.revokedAll) != 1 || tokens.revokedAll[0] != 7 {
			t.Errorf("revokedAll = %v, want user 7", tokens.revokedAll)
		}
	})
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := testAuthHandler(&fakeTokens{})
	rec := postJSON(t, h.Login, `{"username":"rina","password":"wrong-pass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h := NewAuthHandler(config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4},
		&fakeUsers{createErr: repository.ErrUsernameExists}, &fakeTokens{})
	rec := postJSON(t, h.Register, `{"username":"rina","password":"pw"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}
