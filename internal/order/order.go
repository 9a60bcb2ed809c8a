// Package order reconstructs ascending, contiguous block-range order from
// the dispatcher's unordered completion stream. It is the Go realization
// of the original Rust order_by_range (order.rs): same next_expected
// cursor, same from-keyed buffer map, but expressed as a single goroutine
// draining an input channel and feeding an output channel instead of a
// poll-based futures::Stream impl.
package order

import (
	"fmt"

	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/workitem"
)

// Item is one ordered output: the range it covers, its decoded-or-raw
// value, or an error. Err set means either the upstream item itself
// carried an error (dispatch.Result.Err) or the orderer detected a
// protocol violation (an unordered item arriving on the ordered stream).
// Once an Err is emitted, next_expected does not advance for that item:
// per spec.md §7, callers decide whether to abort, skip, or retry by
// resubmitting the corresponding range. This implementation's default,
// matching the spec's stated default, is abort — Run stops and closes
// its output channel as soon as it emits an Err.
type Item struct {
	Range workitem.Range
	Value interface{}
	Err   error
}

// pending is one early-arrived entry sitting in the reorder buffer.
type pending struct {
	to    uint64
	value interface{}
}

// Run consumes in (typically a dispatch.Dispatcher.Run output, already
// paired with decoded values by the caller — see below) and produces an
// Item stream in strictly ascending, contiguous range order starting at
// start. The caller is responsible for decoding dispatch.Result.Raw
// before handing values to Run; Run itself only reorders.
//
// Run closes out once in is drained (after flushing any final buffered
// entry sitting at next_expected) or once it emits an Err.
func Run(in <-chan Pair, start uint64) <-chan Item {
	out := make(chan Item)

	go func() {
		defer close(out)

		nextExpected := start
		buffer := make(map[uint64]pending)

		emit := func(r workitem.Range, v interface{}) {
			out <- Item{Range: r, Value: v}
			nextExpected = r.To + 1
		}

		for {
			// Step 1: drain anything already buffered at next_expected,
			// in case more than one arrived early and is now contiguous.
			for {
				p, ok := buffer[nextExpected]
				if !ok {
					break
				}
				delete(buffer, nextExpected)
				emit(workitem.Range{From: nextExpected, To: p.to}, p.value)
			}

			pair, ok := <-in
			if !ok {
				// End of stream: nothing left to read. Step 1 already
				// flushed any buffered entry sitting at next_expected,
				// so there is nothing more to do.
				return
			}

			if pair.Result.Err != nil {
				out <- Item{Err: pair.Result.Err}
				return
			}
			if pair.Result.Key.Kind != workitem.KindRange {
				out <- Item{Err: fmt.Errorf("order: unordered item in ordered stream (key=%s)", pair.Result.Key)}
				return
			}

			r := pair.Result.Key.Range
			if r.From == nextExpected {
				emit(r, pair.Value)
				continue
			}
			buffer[r.From] = pending{to: r.To, value: pair.Value}
		}
	}()

	return out
}

// Pair couples a dispatch.Result with its already-decoded value, since
// dispatch itself only carries json.RawMessage and has no notion of the
// plan-specific decoded type. Callers typically build a channel of Pair
// by ranging over a dispatch.Dispatcher.Run channel and decoding each
// Result.Raw as it arrives, forwarding (Result, decoded) onward to Run.
type Pair struct {
	Result dispatch.Result
	Value  interface{}
}
