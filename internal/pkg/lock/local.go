package lock

import (
	"context"
	"hash/fnv"
)

const defaultStripes = 256

// LocalLocker is an in-process WorkerLocker built on a fixed set of lock stripes.
// Two workers may share a stripe; that only costs some contention.
type LocalLocker struct {
	stripes []chan struct{}
}

func NewLocalLocker(stripes int) *LocalLocker {
	if stripes <= 0 {
		stripes = defaultStripes
	}
	l := &LocalLocker{stripes: make([]chan struct{}, stripes)}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

func (l *LocalLocker) Lock(ctx context.Context, workerID string) (func(), error) {
	stripe := l.stripes[l.index(workerID)]

	select {
	case stripe <- struct{}{}:
		return func() { <-stripe }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) index(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % uint32(len(l.stripes))
}
