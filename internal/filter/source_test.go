package filter

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nao1215/postfilter/internal/model"
)

// fakeSource is an in-memory source.Source for tests.
type fakeSource struct {
	grouped map[model.GroupKind]model.GroupedDataset
	flat    model.FlatDataset
	err     error

	// blocks holds, per call number (starting at 1), a channel the call
	// waits on before returning. The wait ignores the context.
	blocks map[int64]chan struct{}

	// waitCtx makes every call block until its context is done.
	waitCtx bool

	// entered receives the call number when a call starts, if non-nil.
	entered chan int64

	calls atomic.Int64

	mu    sync.Mutex
	kinds []model.GroupKind
}

func (s *fakeSource) enter(ctx context.Context, kind model.GroupKind) error {
	n := s.calls.Add(1)

	s.mu.Lock()
	s.kinds = append(s.kinds, kind)
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- n
	}
	if ch, ok := s.blocks[n]; ok {
		<-ch
	}
	if s.waitCtx {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func (s *fakeSource) Groups(ctx context.Context, kind model.GroupKind) (model.GroupedDataset, error) {
	if err := s.enter(ctx, kind); err != nil {
		return nil, err
	}
	return s.grouped[kind], nil
}

func (s *fakeSource) Posts(ctx context.Context) (model.FlatDataset, error) {
	if err := s.enter(ctx, model.GroupNone); err != nil {
		return nil, err
	}
	return s.flat, nil
}

func (s *fakeSource) requestedKinds() []model.GroupKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.GroupKind(nil), s.kinds...)
}

// gateSource serves the flat dataset. Call n (starting at 1) reports n on
// entered, waits for gates[n-1] to close, and then fails if its context was
// cancelled in the meantime.
type gateSource struct {
	flat    model.FlatDataset
	entered chan int
	gates   []chan struct{}
	calls   atomic.Int32
}

func (s *gateSource) Groups(context.Context, model.GroupKind) (model.GroupedDataset, error) {
	return nil, nil
}

func (s *gateSource) Posts(ctx context.Context) (model.FlatDataset, error) {
	n := int(s.calls.Add(1))
	s.entered <- n
	<-s.gates[n-1]
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.flat, nil
}
