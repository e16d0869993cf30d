package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by authenticated calls on an empty session.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials is the persisted form of a session.
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Session holds the authentication state for one API user. It is safe for
// concurrent use.
type Session struct {
	client *Client

	mu           sync.RWMutex
	token        string
	refreshToken string
	user         *User
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Init restores a session from stored credentials. An expired access token
// is refreshed once; if that fails the session is cleared and the error
// returned.
func (s *Session) Init(ctx context.Context, creds Credentials) error {
	if creds.Token == "" {
		s.clear()
		return ErrNotLoggedIn
	}
	s.set(creds.Token, creds.RefreshToken, nil)

	user, err := s.profile(ctx)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized && creds.RefreshToken != "" {
		if err = s.refresh(ctx); err == nil {
			user, err = s.profile(ctx)
		}
	}
	if err != nil {
		s.clear()
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	var resp tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := s.client.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	s.set(resp.Token, resp.RefreshToken, resp.User)
	return resp.User, nil
}

func (s *Session) Register(ctx context.Context, email, password, username string) (*User, error) {
	var resp tokenResponse
	body := map[string]string{"email": email, "password": password, "username": username}
	if err := s.client.do(ctx, http.MethodPost, "/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	s.set(resp.Token, resp.RefreshToken, resp.User)
	return resp.User, nil
}

// Logout revokes the refresh token server side and always clears local state.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()
	defer s.clear()

	if refreshToken == "" {
		return nil
	}
	return s.client.do(ctx, http.MethodPost, "/auth/logout", "", map[string]string{"refreshToken": refreshToken}, nil)
}

// CurrentUser returns the logged-in user, or nil.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Credentials{Token: s.token, RefreshToken: s.refreshToken}
}

func (s *Session) Questions(ctx context.Context, from, to string, count int) ([]Question, error) {
	q := url.Values{}
	q.Set("fromLanguage", from)
	q.Set("toLanguage", to)
	if count > 0 {
		q.Set("numberOfQuestions", strconv.Itoa(count))
	}

	var resp struct {
		Questions []Question `json:"questions"`
	}
	if err := s.authed(ctx, http.MethodGet, "/quiz/questions?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func (s *Session) Submit(ctx context.Context, from, to string, answers []Answer, start, end time.Time) (*QuizResult, error) {
	body := map[string]interface{}{
		"answers":      answers,
		"startTime":    start.UnixMilli(),
		"endTime":      end.UnixMilli(),
		"fromLanguage": from,
		"toLanguage":   to,
	}

	var resp struct {
		Result QuizResult `json:"result"`
	}
	if err := s.authed(ctx, http.MethodPost, "/quiz/submit", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

func (s *Session) History(ctx context.Context, page, limit int) (*HistoryPage, error) {
	var resp HistoryPage
	if err := s.authed(ctx, http.MethodGet, historyPath(page, limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Session) Detail(ctx context.Context, quizID string) (*QuizDetail, error) {
	var resp struct {
		Quiz QuizDetail `json:"quiz"`
	}
	if err := s.authed(ctx, http.MethodGet, "/quiz/"+url.PathEscape(quizID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Quiz, nil
}

// authed performs an authenticated call, refreshing the access token once on 401.
func (s *Session) authed(ctx context.Context, method, path string, body, out interface{}) error {
	s.mu.RLock()
	token, refreshToken := s.token, s.refreshToken
	s.mu.RUnlock()
	if token == "" {
		return ErrNotLoggedIn
	}

	err := s.client.do(ctx, method, path, token, body, out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized || refreshToken == "" {
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	token = s.token
	s.mu.RUnlock()
	return s.client.do(ctx, method, path, token, body, out)
}

func (s *Session) refresh(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	var resp tokenResponse
	if err := s.client.do(ctx, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": refreshToken}, &resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.mu.Unlock()
	return nil
}

func (s *Session) profile(ctx context.Context) (*User, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	var resp struct {
		User *User `json:"user"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/auth/profile", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (s *Session) set(token, refreshToken string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.refreshToken = refreshToken
	s.user = user
}

func (s *Session) clear() {
	s.set("", "", nil)
}
