package observable_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rxstore/observable"
)

var _ = Describe("Future", func() {
	It("should resolve with a value", func() {
		f := observable.NewFuture[string]()
		Expect(f.IsSettled()).To(BeFalse())

		go f.Resolve("done")

		v, err := f.Wait(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("done"))

		value, ok := f.Value()
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal("done"))
	})

	It("should settle only once", func() {
		f := observable.NewFuture[int]()
		f.Fail(errors.New("first"))
		f.Resolve(3)

		_, ok := f.Value()
		Expect(ok).To(BeFalse())
		Expect(f.Err()).To(MatchError("first"))
	})

	It("should complete empty futures immediately", func() {
		f := observable.Empty[int]()

		Eventually(f.Done()).Should(BeClosed())
		v, err := f.Wait(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeZero())
		_, ok := f.Value()
		Expect(ok).To(BeFalse())
	})

	It("should stop waiting when the context ends", func() {
		f := observable.NewFuture[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := f.Wait(ctx)

		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("should run callbacks registered before and after settling", func() {
		f := observable.NewFuture[int]()
		var calls []int

		f.Then(func(v int, ok bool, err error) { calls = append(calls, v) })
		f.Resolve(7)
		f.Then(func(v int, ok bool, err error) { calls = append(calls, v*2) })

		Expect(calls).To(Equal([]int{7, 14}))
	})
})
