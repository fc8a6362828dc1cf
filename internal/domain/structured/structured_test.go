package structured_test

import (
	"errors"
	"testing"

	"github.com/okian/aithena/internal/domain/structured"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Given an object wrapped in prose", t, func() {
		raw, err := structured.Extract(`noise {"a":1} noise`, structured.Object)

		Convey("Then the object is returned", func() {
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"a":1}`)
		})
	})

	Convey("Given an object inside a markdown fence", t, func() {
		text := "Sure!\n```json\n{\"tokens\": [\"CSE\"]}\n```"
		v, err := structured.Decode[map[string][]string](text, structured.Object)

		Convey("Then the fence is tolerated", func() {
			So(err, ShouldBeNil)
			So(v["tokens"], ShouldResemble, []string{"CSE"})
		})
	})

	Convey("Given text without braces", t, func() {
		_, err := structured.Extract("just words", structured.Object)

		Convey("Then it reports an extraction failure", func() {
			So(errors.Is(err, structured.ErrNoJSON), ShouldBeTrue)
			So(errors.Is(err, structured.ErrMalformedJSON), ShouldBeFalse)
			So(structured.Recoverable(err), ShouldBeTrue)
		})
	})

	Convey("Given a closing brace before the opening one", t, func() {
		_, err := structured.Extract("} oops {", structured.Object)

		Convey("Then the opening brace is never closed", func() {
			So(errors.Is(err, structured.ErrMalformedJSON), ShouldBeTrue)
			So(errors.Is(err, structured.ErrNoJSON), ShouldBeFalse)
		})
	})

	Convey("Given bad JSON inside braces", t, func() {
		var err error
		So(func() { _, err = structured.Extract("{bad json}", structured.Object) }, ShouldNotPanic)

		Convey("Then it reports a parse failure, not a crash", func() {
			So(errors.Is(err, structured.ErrMalformedJSON), ShouldBeTrue)
			So(errors.Is(err, structured.ErrNoJSON), ShouldBeFalse)
		})
	})

	Convey("Given an unterminated object", t, func() {
		var err error
		So(func() { _, err = structured.Extract("{bad json", structured.Object) }, ShouldNotPanic)

		Convey("Then it reports a parse failure", func() {
			So(errors.Is(err, structured.ErrMalformedJSON), ShouldBeTrue)
			So(errors.Is(err, structured.ErrNoJSON), ShouldBeFalse)
			So(structured.Recoverable(err), ShouldBeTrue)
		})
	})

	Convey("Given an array request", t, func() {
		text := `Here you go: [{"name":"A","text":"Hey, study?"}] thanks`
		type item struct {
			Name string `json:"name"`
			Text string `json:"text"`
		}
		v, err := structured.Decode[[]item](text, structured.Array)

		Convey("Then the array is decoded", func() {
			So(err, ShouldBeNil)
			So(len(v), ShouldEqual, 1)
			So(v[0].Name, ShouldEqual, "A")
		})
	})

	Convey("Given a payload of the wrong structure", t, func() {
		_, err := structured.Decode[[]string](`{"a":1}`+` [1,2]`, structured.Array)

		Convey("Then it reports a shape mismatch", func() {
			So(errors.Is(err, structured.ErrShapeMismatch), ShouldBeTrue)
		})
	})

	Convey("Given two independent objects", t, func() {
		_, err := structured.Extract(`{"a":1} and {"b":2}`, structured.Object)

		Convey("Then the greedy span does not parse", func() {
			So(errors.Is(err, structured.ErrMalformedJSON), ShouldBeTrue)
		})
	})

	Convey("Given an unrelated error", t, func() {
		So(structured.Recoverable(errors.New("boom")), ShouldBeFalse)
		So(structured.Recoverable(nil), ShouldBeFalse)
	})
}
