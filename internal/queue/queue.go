package queue

import (
	"context"
	"runtime/debug"
	"sync"

	"trigger-bot/internal/logger"
)

// Job единица работы очереди.
type Job func(ctx context.Context)

type pending struct {
	ctx context.Context
	job Job
}

// KeyQueue выполняет задачи одного ключа строго по очереди,
// задачи разных ключей параллельно, но не больше maxActive одновременно.
type KeyQueue struct {
	mu        sync.Mutex
	queues    map[string][]pending
	running   map[string]bool
	order     []string
	active    int
	maxActive int

	wg  sync.WaitGroup
	log *logger.Logger
}

func New(maxConcurrent int, log *logger.Logger) *KeyQueue {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &KeyQueue{
		queues:    make(map[string][]pending),
		running:   make(map[string]bool),
		maxActive: maxConcurrent,
		log:       log,
	}
}

// Enqueue ставит задачу в очередь ключа. ctx передается в задачу.
func (q *KeyQueue) Enqueue(ctx context.Context, key string, job Job) {
	q.wg.Add(1)
	q.mu.Lock()
	if len(q.queues[key]) == 0 && !q.running[key] {
		q.order = append(q.order, key)
	}
	q.queues[key] = append(q.queues[key], pending{ctx: ctx, job: job})
	q.mu.Unlock()
	q.dispatch()
}

// dispatch запускает задачи, пока есть свободные места и ключи без работающей задачи
func (q *KeyQueue) dispatch() {
	for {
		q.mu.Lock()
		if q.active >= q.maxActive || len(q.order) == 0 {
			q.mu.Unlock()
			return
		}

		// ключи в order не заняты и имеют задачи
		key := q.order[0]
		q.order = q.order[1:]
		next := q.queues[key][0]
		q.queues[key] = q.queues[key][1:]
		if len(q.queues[key]) == 0 {
			delete(q.queues, key)
		}
		q.running[key] = true
		q.active++
		q.mu.Unlock()

		go q.run(key, next)
	}
}

func (q *KeyQueue) run(key string, p pending) {
	defer q.wg.Done()
	defer func() {
		q.mu.Lock()
		q.active--
		delete(q.running, key)
		if len(q.queues[key]) > 0 {
			q.order = append(q.order, key)
		}
		q.mu.Unlock()
		q.dispatch()
	}()
	defer func() {
		if r := recover(); r != nil {
			q.log.Warning("Job panic", key, r, string(debug.Stack()))
		}
	}()

	if err := p.ctx.Err(); err != nil {
		q.log.Debug("Skip canceled job", key)
		return
	}
	p.job(p.ctx)
}

// Wait ждет завершения всех поставленных задач или отмены ctx.
func (q *KeyQueue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
