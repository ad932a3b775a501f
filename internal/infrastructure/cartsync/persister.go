// Package cartsync сохраняет снимки сессионных корзин во внешнее хранилище в фоне.
package cartsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/jitter"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
)

// Persister — очередь с единственным писателем. Для каждой сессии хранится только
// последний ещё не записанный снимок, поэтому серия быстрых изменений даёт одну запись.
// Версии одной сессии записываются строго по возрастанию.
// Сессия, чей снимок отклонён как устаревший, не считается сохранённой,
// пока не будет записана более новая версия.
type Persister struct {
	repo    usecase.CartRepository
	logger  logger.Logger
	policy  jitter.Policy
	timeout time.Duration

	mu       sync.Mutex
	pending  map[string]domain.CartSnapshot
	queue    []string
	inflight map[string]int64
	failed   map[string]domain.CartSnapshot
	written  map[string]int64
	stale    map[string]int64

	wake chan struct{}
	done chan struct{}
}

func NewPersister(repo usecase.CartRepository, logger logger.Logger, policy jitter.Policy, timeout time.Duration) *Persister {
	return &Persister{
		repo:     repo,
		logger:   logger,
		policy:   policy,
		timeout:  timeout,
		pending:  make(map[string]domain.CartSnapshot),
		inflight: make(map[string]int64),
		failed:   make(map[string]domain.CartSnapshot),
		written:  make(map[string]int64),
		stale:    make(map[string]int64),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Enqueue ставит снимок в очередь и сразу возвращает управление.
// Снимок с версией не новее уже поставленной отбрасывается.
func (p *Persister) Enqueue(snapshot domain.CartSnapshot) {
	p.mu.Lock()
	id := snapshot.SessionID
	if cur, ok := p.pending[id]; ok {
		if cur.Version >= snapshot.Version {
			p.mu.Unlock()
			return
		}
	} else {
		if snapshot.Version <= p.written[id] {
			p.mu.Unlock()
			return
		}
		p.queue = append(p.queue, id)
	}
	p.pending[id] = snapshot
	if f, ok := p.failed[id]; ok && f.Version <= snapshot.Version {
		delete(p.failed, id)
	}
	p.mu.Unlock()

	p.signal()
}

// Synced сообщает, записана ли версия сессии и нет ли по ней незавершённой работы.
func (p *Persister) Synced(sessionID string, version int64) bool {
	if version == 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[sessionID]; ok {
		return false
	}
	if _, ok := p.inflight[sessionID]; ok {
		return false
	}
	if _, ok := p.failed[sessionID]; ok {
		return false
	}
	if _, ok := p.stale[sessionID]; ok {
		return false
	}

	return p.written[sessionID] >= version
}

// Forget убирает учёт записанной версии выгруженной сессии.
func (p *Persister) Forget(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, pending := p.pending[sessionID]
	_, inflight := p.inflight[sessionID]
	_, failed := p.failed[sessionID]
	_, stale := p.stale[sessionID]
	if !pending && !inflight && !failed && !stale {
		delete(p.written, sessionID)
	}
}

// Run пишет снимки, пока не отменён ctx. Неудавшиеся записи повторяются раз в policy.Max.
func (p *Persister) Run(ctx context.Context) error {
	defer close(p.done)

	retryEvery := p.policy.Max
	if retryEvery <= 0 {
		retryEvery = 5 * time.Second
	}
	ticker := time.NewTicker(retryEvery)
	defer ticker.Stop()

	for {
		if snapshot, ok := p.next(); ok {
			p.write(ctx, snapshot)
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-p.wake:
		case <-ticker.C:
			p.requeueFailed()
		}
	}
}

// Flush дожидается остановки Run и синхронно дописывает всё, что осталось в очереди.
func (p *Persister) Flush(ctx context.Context) error {
	const op = "Persister.Flush"

	select {
	case <-p.done:
	case <-ctx.Done():
		return e.Wrap(op, ctx.Err())
	}

	p.requeueFailed()

	var errs []error
	for {
		snapshot, ok := p.next()
		if !ok {
			break
		}

		saveCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.repo.Save(saveCtx, snapshot)
		cancel()
		p.finish(snapshot, err)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return e.Wrap(op, errors.Join(errs...))
	}

	return nil
}

func (p *Persister) write(ctx context.Context, snapshot domain.CartSnapshot) {
	err := jitter.Retry(ctx, p.policy, func(ctx context.Context) error {
		saveCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		if err := p.repo.Save(saveCtx, snapshot); err != nil {
			if errors.Is(err, e.ErrStaleSnapshot) {
				return jitter.Permanent(err)
			}
			p.logger.Debugf("cart %s v%d save attempt failed: %v", snapshot.SessionID, snapshot.Version, err)
			return err
		}
		return nil
	})
	if err != nil && !errors.Is(err, e.ErrStaleSnapshot) {
		p.logger.Errorf(err, "cart %s v%d not persisted", snapshot.SessionID, snapshot.Version)
	}

	p.finish(snapshot, err)
}

// next забирает из очереди следующий снимок и помечает его как записываемый.
func (p *Persister) next() (domain.CartSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) > 0 {
		id := p.queue[0]
		p.queue = p.queue[1:]

		snapshot, ok := p.pending[id]
		if !ok {
			continue
		}
		delete(p.pending, id)
		p.inflight[id] = snapshot.Version
		return snapshot, true
	}

	return domain.CartSnapshot{}, false
}

func (p *Persister) finish(snapshot domain.CartSnapshot, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := snapshot.SessionID
	delete(p.inflight, id)

	if err == nil {
		if snapshot.Version > p.written[id] {
			p.written[id] = snapshot.Version
		}
		delete(p.stale, id)
		return
	}

	// повтор не поможет: сессия остаётся в памяти до записи более новой версии
	if errors.Is(err, e.ErrStaleSnapshot) {
		p.stale[id] = snapshot.Version
		p.logger.Warnf("cart %s v%d rejected, storage holds a newer snapshot", id, snapshot.Version)
		return
	}

	// более новый снимок уже в очереди и заменит этот
	if _, ok := p.pending[id]; !ok {
		p.failed[id] = snapshot
	}
}

func (p *Persister) requeueFailed() {
	p.mu.Lock()
	requeued := 0
	for id, snapshot := range p.failed {
		delete(p.failed, id)
		if _, ok := p.pending[id]; ok {
			continue
		}
		p.pending[id] = snapshot
		p.queue = append(p.queue, id)
		requeued++
	}
	p.mu.Unlock()

	if requeued > 0 {
		p.logger.Infof("Retrying %d unsaved carts", requeued)
		p.signal()
	}
}

func (p *Persister) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}
