package memory

import (
	"strconv"
	"time"

	"goodvibes-bot/internal/model"
	"goodvibes-bot/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type sessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository builds the in-memory session registry. Sessions that
// sit untouched for a day are evicted; every Save refreshes the clock, so an
// active dialog never expires mid-flow.
func NewSessionRepository() contract.ISessionRepository {
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &sessionRepository{
		cache: c,
	}
}

func (r *sessionRepository) Save(session *model.Session) {
	r.cache.Set(sessionKey(session.UserID), session, cache.DefaultExpiration)
}

func (r *sessionRepository) Get(userID int64) (*model.Session, bool) {
	if x, found := r.cache.Get(sessionKey(userID)); found {
		return x.(*model.Session), true
	}
	return nil, false
}

func (r *sessionRepository) Delete(userID int64) {
	r.cache.Delete(sessionKey(userID))
}

func sessionKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
