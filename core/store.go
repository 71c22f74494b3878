package core

import "sync"

// CorrelationStore maps an original message id to the id of the bot reply
// that corrected it. Entries live for the process lifetime only.
type CorrelationStore struct {
	mu      sync.RWMutex
	replies map[string]string
}

func NewCorrelationStore() *CorrelationStore {
	return &CorrelationStore{
		replies: make(map[string]string),
	}
}

// Insert records replyID for originalID, replacing any previous entry. It
// reports whether originalID was not tracked before.
func (cs *CorrelationStore) Insert(originalID string, replyID string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	_, existed := cs.replies[originalID]
	cs.replies[originalID] = replyID
	return !existed
}

// Take looks up the reply recorded for originalID without removing it.
func (cs *CorrelationStore) Take(originalID string) (string, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	replyID, ok := cs.replies[originalID]
	return replyID, ok
}

func (cs *CorrelationStore) Remove(originalID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.replies, originalID)
}

// Resolve removes the entry for originalID only if it still points at
// replyID. Exactly one of several concurrent callers gets true.
func (cs *CorrelationStore) Resolve(originalID string, replyID string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	current, ok := cs.replies[originalID]
	if !ok || current != replyID {
		return false
	}
	delete(cs.replies, originalID)
	return true
}

func (cs *CorrelationStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return len(cs.replies)
}
