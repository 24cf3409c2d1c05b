package session

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Store ユーザーIDをキーにしたセッションの入れ物。
// コア自身は古いセッションを破棄しないため、ホスト側でSweepを定期実行すること。
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	// プロセス全体の利用カウンタ
	TotalStamped  atomic.Int64
	TotalBatches  atomic.Int64
	TotalFailures atomic.Int64
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Get セッションを取得する。なければ作成する。
func (st *Store) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, mode: ModeIdle, lastActive: time.Now()}
		st.sessions[userID] = sess
	}
	return sess
}

// Peek セッションを取得する。なければnil。
func (st *Store) Peek(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[userID]
}

// Delete セッションを破棄する。生きているタイマーも止める。
func (st *Store) Delete(userID string) {
	st.mu.Lock()
	sess, ok := st.sessions[userID]
	delete(st.sessions, userID)
	st.mu.Unlock()

	if ok {
		sess.Lock()
		sess.CancelTimer()
		sess.Unlock()
	}
}

// Len 現在のセッション数
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep maxIdleより長く使われていないセッションを破棄し、件数を返す
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	var stale []*Session
	for id, sess := range st.sessions {
		sess.Lock()
		idle := sess.lastActive.Before(cutoff)
		sess.Unlock()
		if idle {
			stale = append(stale, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range stale {
		sess.Lock()
		sess.CancelTimer()
		sess.Unlock()
	}
	if len(stale) > 0 {
		log.Printf("Swept %d idle session(s)", len(stale))
	}
	return len(stale)
}

// StartSweeper バックグラウンドの掃除ループを開始する
func (st *Store) StartSweeper(interval, maxIdle time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.Sweep(maxIdle)
			case <-stop:
				return
			}
		}
	}()
}
