package devtools

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rxstore/developer"
)

var _ = Describe("History", func() {
	var (
		history  *History
		lock     sync.Mutex
		messages [][]byte
	)

	received := func() [][]byte {
		lock.Lock()
		defer lock.Unlock()

		return append([][]byte{}, messages...)
	}

	BeforeEach(func() {
		messages = nil
		history = NewHistory()
		history.now = func() time.Time { return time.UnixMilli(42) }
		history.Subscribe(func(msg []byte) {
			lock.Lock()
			defer lock.Unlock()

			messages = append(messages, msg)
		})
	})

	It("should start empty", func() {
		lifted := history.Lifted()

		Expect(lifted.CurrentStateIndex).To(Equal(-1))
		Expect(lifted.ComputedStates).To(BeEmpty())
		Expect(history.Len()).To(Equal(0))
	})

	It("should record the handshake and the states sent", func() {
		Expect(history.Init(json.RawMessage(`{"developers":[],"activeCategory":""}`))).To(Succeed())
		Expect(history.Send("load all devs",
			json.RawMessage(`{"developers":[{"name":"A","skills":["Go"],"category":"senior"}],"activeCategory":"all"}`))).
			To(Succeed())

		lifted := history.Lifted()

		Expect(lifted.CurrentStateIndex).To(Equal(1))
		Expect(lifted.NextActionID).To(Equal(2))
		Expect(lifted.StagedActionIDs).To(Equal([]int{0, 1}))
		Expect(lifted.ActionsByID[0].Action.Type).To(Equal(InitAction))
		Expect(lifted.ActionsByID[1]).To(Equal(LiftedAction{
			Action:    ActionType{Type: "load all devs"},
			Timestamp: 42,
			Type:      "PERFORM_ACTION",
		}))
		Expect(lifted.ComputedStates[1].State.ActiveCategory).To(Equal(developer.CategoryAll))
	})

	It("should export in the lifted state format", func() {
		Expect(history.Init(json.RawMessage(`{"developers":[],"activeCategory":""}`))).To(Succeed())

		data, err := json.Marshal(history.Lifted())

		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{
			"actionsById":{"0":{"action":{"type":"@@INIT"},"timestamp":42,"type":"PERFORM_ACTION"}},
			"computedStates":[{"state":{"developers":[],"activeCategory":""}}],
			"currentStateIndex":0,
			"nextActionId":1,
			"skippedActionIds":[],
			"stagedActionIds":[0]
		}`))
	})

	It("should reject states it cannot decode", func() {
		Expect(history.Send("bad", json.RawMessage(`[]`))).NotTo(Succeed())
		Expect(history.Len()).To(Equal(0))
	})

	It("should emit a dispatch when jumping", func() {
		Expect(history.Init(json.RawMessage(`{"developers":[],"activeCategory":""}`))).To(Succeed())
		Expect(history.Send("load junior devs",
			json.RawMessage(`{"developers":[],"activeCategory":"junior"}`))).To(Succeed())

		Expect(history.Jump(0)).To(Succeed())

		Expect(received()).To(HaveLen(1))
		m, err := ParseMessage(received()[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(PlainDispatch{
			PayloadType: PayloadJumpState,
			State:       developer.State{Developers: []developer.Developer{}},
		}))
		Expect(history.Lifted().CurrentStateIndex).To(Equal(0))
	})

	It("should refuse to jump out of range", func() {
		Expect(history.Jump(3)).To(MatchError(ErrStateIndexOutOfRange))
		Expect(received()).To(BeEmpty())
	})

	It("should emit an import", func() {
		lifted := EmptyLiftedState()
		lifted.ComputedStates = []ComputedState{
			{State: developer.State{Developers: []developer.Developer{}, ActiveCategory: developer.CategorySenior}},
		}
		lifted.CurrentStateIndex = 0

		Expect(history.Import(lifted)).To(Succeed())

		m, err := ParseMessage(received()[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(m.(ImportState).State.ActiveCategory).To(Equal(developer.CategorySenior))
		Expect(history.Len()).To(Equal(1))
	})

	It("should travel the store back in time", func() {
		store := newStore(log.New(GinkgoWriter, "", 0))
		defer store.Close()

		Expect(Connect(store, history, nil).Active()).To(BeTrue())

		waitState(store.LoadAll(context.Background()))
		waitState(store.LoadJuniors(context.Background()))
		Eventually(history.Len).Should(Equal(3))

		Expect(history.Jump(1)).To(Succeed())

		Eventually(func() developer.Category {
			return store.Snapshot().ActiveCategory
		}).Should(Equal(developer.CategoryAll))
		Expect(store.Snapshot().Developers).To(HaveLen(6))
		Consistently(history.Len, 50*time.Millisecond).Should(Equal(3))
	})
})
