package telegram

import (
	"sync"

	"github.com/Amund211/ethwalletbot/internal/domain"
)

// Runs jobs one at a time per chat, in submission order. Different chats run in parallel.
//
// A chat has a worker goroutine only while it has queued jobs.
type chatQueue struct {
	mutex   sync.Mutex
	pending map[domain.ChatID][]func()
	wg      sync.WaitGroup
}

func newChatQueue() *chatQueue {
	return &chatQueue{
		pending: make(map[domain.ChatID][]func()),
	}
}

func (q *chatQueue) Submit(chatID domain.ChatID, job func()) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	jobs, active := q.pending[chatID]
	q.pending[chatID] = append(jobs, job)
	if !active {
		q.wg.Go(func() {
			q.work(chatID)
		})
	}
}

func (q *chatQueue) work(chatID domain.ChatID) {
	for {
		q.mutex.Lock()
		jobs := q.pending[chatID]
		if len(jobs) == 0 {
			delete(q.pending, chatID)
			q.mutex.Unlock()
			return
		}
		job := jobs[0]
		q.pending[chatID] = jobs[1:]
		q.mutex.Unlock()

		job()
	}
}

// Block until every submitted job has finished
func (q *chatQueue) Wait() {
	q.wg.Wait()
}

func (q *chatQueue) activeChats() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.pending)
}
