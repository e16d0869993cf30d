package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/model"
)

const sessionKey = "auth.session"

// Session is the authenticated identity of a single request. It is built by
// the auth middleware from a freshly loaded user, never from token claims alone.
type Session struct {
	User *model.User
}

func (s *Session) UserID() string {
	return s.User.ID
}

func (s *Session) IsAdmin() bool {
	return s.User.IsAdmin()
}

func SetSession(c *gin.Context, s *Session) {
	c.Set(sessionKey, s)
}

// CurrentSession returns the request's session, if the auth middleware ran.
func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil && s.User != nil
}
