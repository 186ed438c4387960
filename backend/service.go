// Package backend provides an in-memory developer service with artificial
// latency. It stands in for a remote API in demos and tests.
package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sarchlab/rxstore/developer"
)

// Default latencies of the service.
const (
	DefaultReadDelay   = 200 * time.Millisecond
	DefaultCreateDelay = 2 * time.Second
)

// Service keeps developers grouped by category. It is safe for concurrent
// use.
type Service struct {
	lock       sync.Mutex
	byCategory map[developer.Category][]developer.Developer
	order      []developer.Category
	failNext   error

	readDelay   time.Duration
	createDelay time.Duration
}

// LoadAll returns every developer, senior ones first.
func (s *Service) LoadAll(ctx context.Context) ([]developer.Developer, error) {
	if err := s.delay(ctx, s.readDelay); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	devs := []developer.Developer{}
	for _, c := range s.order {
		devs = append(devs, cloneAll(s.byCategory[c])...)
	}

	return devs, nil
}

// LoadByCategory returns the developers of one category. Asking for the "all"
// category is the same as calling LoadAll.
func (s *Service) LoadByCategory(
	ctx context.Context,
	category developer.Category,
) ([]developer.Developer, error) {
	if category == developer.CategoryAll {
		return s.LoadAll(ctx)
	}

	if err := s.delay(ctx, s.readDelay); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	devs, found := s.byCategory[category]
	if !found {
		return nil, fmt.Errorf("%w: %q", developer.ErrUnknownCategory, category)
	}

	return cloneAll(devs), nil
}

// AddDeveloper stores a new developer under the given category and returns
// it. Developers cannot be added to the "all" category.
func (s *Service) AddDeveloper(
	ctx context.Context,
	category developer.Category,
	name string,
	skills []string,
) (developer.Developer, error) {
	if err := s.delay(ctx, s.createDelay); err != nil {
		return developer.Developer{}, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.takeFailure(); err != nil {
		return developer.Developer{}, err
	}

	if _, found := s.byCategory[category]; !found {
		return developer.Developer{},
			fmt.Errorf("%w: cannot add to %q", developer.ErrUnknownCategory, category)
	}

	dev := developer.Developer{
		Name:     name,
		Skills:   append([]string{}, skills...),
		Category: category,
	}
	s.byCategory[category] = append(s.byCategory[category], dev)

	return dev.Clone(), nil
}

// FailNext makes the next call of any operation return err instead of doing
// its work.
func (s *Service) FailNext(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.failNext = err
}

// Count returns the number of developers stored under a category.
func (s *Service) Count(category developer.Category) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	if category == developer.CategoryAll {
		n := 0
		for _, devs := range s.byCategory {
			n += len(devs)
		}

		return n
	}

	return len(s.byCategory[category])
}

func (s *Service) takeFailure() error {
	err := s.failNext
	s.failNext = nil

	return err
}

func (s *Service) delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneAll(devs []developer.Developer) []developer.Developer {
	cloned := make([]developer.Developer, len(devs))
	for i, d := range devs {
		cloned[i] = d.Clone()
	}

	return cloned
}

var _ developer.DataSource = (*Service)(nil)
