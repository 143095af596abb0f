// This project is licensed under the MIT License (see LICENSE).

package script

type ctrlKind int

const (
	ctrlBreak ctrlKind = iota
	ctrlNext
	ctrlReturn
)

// ctrlSignal is how break/next/return statements unwind the recursive
// evaluator. Callback control flow is never modeled as coroutines; this
// is a direct, synchronous unwind, not a suspension of any kind.
type ctrlSignal struct {
	kind  ctrlKind
	value *Value
}

func (c *ctrlSignal) Error() string { return "control flow signal" }

func asCtrl(err error) (*ctrlSignal, bool) {
	c, ok := err.(*ctrlSignal)
	return c, ok
}
