package devtools

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rxstore/developer"
)

var _ = Describe("ParseMessage", func() {
	juniorState := developer.State{
		Developers: []developer.Developer{
			{Name: "Beginner Dev", Skills: []string{"CSS"}, Category: developer.CategoryJunior},
		},
		ActiveCategory: developer.CategoryJunior,
	}

	It("should parse a dispatch carrying a serialized state", func() {
		msg := `{"type":"DISPATCH","state":"{\"developers\":[{\"name\":\"Beginner Dev\",\"skills\":[\"CSS\"],\"category\":\"junior\"}],\"activeCategory\":\"junior\"}","payload":{"type":"JUMP_TO_STATE"}}`

		m, err := ParseMessage([]byte(msg))

		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(PlainDispatch{
			PayloadType: PayloadJumpState,
			State:       juniorState,
		}))
	})

	It("should pick the current computed state of an import", func() {
		msg := `{"type":"DISPATCH","payload":{"type":"IMPORT_STATE","nextLiftedState":{
			"computedStates":[
				{"state":{"developers":[],"activeCategory":""}},
				{"state":{"developers":[{"name":"Beginner Dev","skills":["CSS"],"category":"junior"}],"activeCategory":"junior"}}
			],
			"currentStateIndex":1}}}`

		m, err := ParseMessage([]byte(msg))

		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(ImportState{Index: 1, State: juniorState}))
	})

	DescribeTable("should fill in a missing developer list",
		func(msg string) {
			m, err := ParseMessage([]byte(msg))

			Expect(err).NotTo(HaveOccurred())
			var state developer.State
			switch m := m.(type) {
			case PlainDispatch:
				state = m.State
			case ImportState:
				state = m.State
			}
			Expect(state.Developers).NotTo(BeNil())
			Expect(state.Developers).To(BeEmpty())
		},
		Entry("empty dispatched state", `{"type":"DISPATCH","state":"{}"}`),
		Entry("null developers", `{"type":"DISPATCH","state":"{\"developers\":null}"}`),
		Entry("empty imported state",
			`{"type":"DISPATCH","payload":{"type":"IMPORT_STATE","nextLiftedState":{"computedStates":[{"state":{}}],"currentStateIndex":0}}}`),
	)

	DescribeTable("should ignore messages that do not change the state",
		func(msg string, expected Ignored) {
			m, err := ParseMessage([]byte(msg))

			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(expected))
		},
		Entry("start", `{"type":"START"}`, Ignored{Type: "START"}),
		Entry("action", `{"type":"ACTION","payload":{"type":"x"}}`,
			Ignored{Type: "ACTION", PayloadType: "x"}),
		Entry("dispatch without state", `{"type":"DISPATCH","payload":{"type":"COMMIT"}}`,
			Ignored{Type: "DISPATCH", PayloadType: "COMMIT"}),
	)

	DescribeTable("should reject malformed messages",
		func(msg string, expected error) {
			_, err := ParseMessage([]byte(msg))

			Expect(err).To(MatchError(expected))
		},
		Entry("not json", `not json`, ErrMalformedMessage),
		Entry("no type", `{"state":"{}"}`, ErrMalformedMessage),
		Entry("state is not json", `{"type":"DISPATCH","state":"{oops"}`, ErrMalformedMessage),
		Entry("null state", `{"type":"DISPATCH","state":"null"}`, ErrMalformedMessage),
		Entry("import of a null state",
			`{"type":"DISPATCH","payload":{"type":"IMPORT_STATE","nextLiftedState":{"computedStates":[{"state":null}],"currentStateIndex":0}}}`,
			ErrMalformedMessage),
		Entry("import of a missing state",
			`{"type":"DISPATCH","payload":{"type":"IMPORT_STATE","nextLiftedState":{"computedStates":[{}],"currentStateIndex":0}}}`,
			ErrMalformedMessage),
		Entry("import without lifted state",
			`{"type":"DISPATCH","payload":{"type":"IMPORT_STATE"}}`, ErrMalformedMessage),
		Entry("import index out of range",
			`{"type":"DISPATCH","payload":{"type":"IMPORT_STATE","nextLiftedState":{"computedStates":[],"currentStateIndex":0}}}`,
			ErrStateIndexOutOfRange),
	)
})
