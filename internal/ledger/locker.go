package ledger

import (
	"context"
	"hash/fnv"
	"sync"
)

const lockShards = 32

// LocalLocker 进程内按 key 互斥的锁。
// 使用分片 (Sharding/Bucket Locking) 降低 map 本身的锁竞争，不同 key 之间互不阻塞。
// 每个 key 对应一个容量为 1 的 channel，等待时可以响应 ctx 取消。
type LocalLocker struct {
	shards [lockShards]lockShard
}

type lockShard struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	l := &LocalLocker{}
	for i := range l.shards {
		l.shards[i].slots = make(map[string]*lockSlot)
	}
	return l
}

func (l *LocalLocker) shard(key string) *lockShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.shards[h.Sum32()%lockShards]
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.shard(key)

	s.mu.Lock()
	slot, ok := s.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		s.slots[key] = slot
	}
	slot.refs++
	s.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(s, key, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.unref(s, key, slot)
		})
	}, nil
}

// 没有等待者时回收 slot，避免 map 随用户数增长
func (l *LocalLocker) unref(s *lockShard, key string, slot *lockSlot) {
	s.mu.Lock()
	slot.refs--
	if slot.refs == 0 {
		delete(s.slots, key)
	}
	s.mu.Unlock()
}
