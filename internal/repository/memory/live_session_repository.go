package memory

import (
	"time"

	"github.com/best200-lab/juristmindchat/pkg/chatstate"

	"github.com/patrickmn/go-cache"
)

// LiveSessionRepository keeps the in-flight transcript of each streaming
// chat session. Entries expire on their own so an abandoned stream does
// not pin its transcript forever.
type LiveSessionRepository struct {
	cache *cache.Cache
}

func NewLiveSessionRepository() *LiveSessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &LiveSessionRepository{
		cache: c,
	}
}

// GetOrCreate returns the live store for a session, creating one on first use.
func (r *LiveSessionRepository) GetOrCreate(sessionID string) *chatstate.Store {
	if x, found := r.cache.Get(sessionID); found {
		store := x.(*chatstate.Store)
		// Touch the entry so active sessions don't expire mid-stream.
		r.cache.Set(sessionID, store, cache.DefaultExpiration)
		return store
	}
	store := chatstate.NewStore()
	r.cache.Set(sessionID, store, cache.DefaultExpiration)
	return store
}

func (r *LiveSessionRepository) Get(sessionID string) (*chatstate.Store, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*chatstate.Store), true
	}
	return nil, false
}

func (r *LiveSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
