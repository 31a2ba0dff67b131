package testutil

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/warpfork/go-errcat"
)

// tl;dr:
//  - `Assert*` methods are Fatalf if failed;
//  - `Want*` methods are Errorf if failed.

type thunk func(string, ...interface{})

func AssertNoError(t *testing.T, err error) { t.Helper(); lambdaNoError(t.Fatalf, err) }
func WantNoError(t *testing.T, err error)   { t.Helper(); lambdaNoError(t.Errorf, err) }
func lambdaNoError(act thunk, err error) {
	if err != nil {
		act("unexpected error: %s", err)
	}
}

func AssertEqual(t *testing.T, actual, expect interface{}) { t.Helper(); lambdaEqual(t.Fatalf, actual, expect) }
func WantEqual(t *testing.T, actual, expect interface{})   { t.Helper(); lambdaEqual(t.Errorf, actual, expect) }
func lambdaEqual(act thunk, actual, expect interface{}) {
	if !reflect.DeepEqual(actual, expect) {
		act("mismatch:\n  actual: %#v\n  expect: %#v", actual, expect)
	}
}

func AssertErrorCategory(t *testing.T, err error, category interface{}) {
	t.Helper()
	lambdaErrorCategory(t.Fatalf, err, category)
}
func WantErrorCategory(t *testing.T, err error, category interface{}) {
	t.Helper()
	lambdaErrorCategory(t.Errorf, err, category)
}
func lambdaErrorCategory(act thunk, err error, category interface{}) {
	if err == nil {
		act("expected an error of category %q, got nil", category)
		return
	}
	if actual := errcat.Category(err); actual != category {
		act("error category mismatch:\n  actual: %q (error: %s)\n  expect: %q", actual, err, category)
	}
}

/*
	ShouldErrorWith is a GoConvey-style assertion: 'actual' should be
	an error, and the single 'expected' clause is the errcat category
	it should carry.  Empty return string means pass; anything else is
	the complaint.
*/
func ShouldErrorWith(actual interface{}, expected ...interface{}) string {
	if len(expected) != 1 {
		return "Misuse: ShouldErrorWith needs exactly one item in the \"expected\" clause"
	}
	want := expected[0]
	if actual == nil {
		return fmt.Sprintf("Actual: nil\nExpected category: %q", want)
	}
	err, ok := actual.(error)
	if !ok {
		return fmt.Sprintf("Actual: %v\nExpected category: %q\nShould have error interface type!  (Was type %T.)", actual, want, actual)
	}
	if got := errcat.Category(err); got != want {
		return fmt.Sprintf("Actual category: %q\nExpected category: %q\n(Full error: %v)", got, want, err)
	}
	return ""
}
