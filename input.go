package xtui

import (
	"bufio"
	"errors"
	"io"
	"time"

	"github.com/muesli/cancelreader"
)

// escTimeout is how long the input loop waits after a lone ESC byte before
// resolving it to the "escape" key rather than the start of a sequence
// (§4.4).
const escTimeout = 50 * time.Millisecond

// Input owns the blocking read loop over the engine's input stream (C4's
// runtime half): it wraps the stream in a cancelreader so Stop can
// interrupt a pending read, feeds bytes to a Decoder, and applies the
// escape-disambiguation timeout.
type Input struct {
	reader  cancelreader.CancelReader
	decoder *Decoder
	events  chan Event
	errs    chan error
	done    chan struct{}
}

// NewInput wraps r for cancelable reads and prepares the decode loop. Call
// Start to begin reading.
func NewInput(r io.Reader) (*Input, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Input{
		reader:  cr,
		decoder: NewDecoder(),
		events:  make(chan Event),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel Start publishes decoded events to.
func (in *Input) Events() <-chan Event { return in.events }

// Start begins the blocking read loop in its own goroutine. It is the
// engine's single designated input-suspension point (§5 "two suspension
// points").
func (in *Input) Start() {
	go in.loop()
}

// Stop cancels the in-flight read, if any, and waits for the read loop to
// exit; the loop closes the event channel as it exits. When the reader
// cannot interrupt a pending read (cancelreader's fallback for streams that
// are not files, such as an io.Pipe), Stop does not wait: the loop exits
// once that read returns.
func (in *Input) Stop() error {
	if in.reader.Cancel() {
		<-in.done
	}
	return in.reader.Close()
}

func (in *Input) loop() {
	defer close(in.done)
	defer close(in.events)

	br := bufio.NewReaderSize(in.reader, 256)
	var pendingEsc bool
	var timer *time.Timer

	flushPending := func() {
		if !pendingEsc {
			return
		}
		pendingEsc = false
		if ev := in.decoder.Flush(); ev != nil {
			in.events <- ev
		}
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			if timer != nil {
				timer.Stop()
			}
			flushPending()
			if !errors.Is(err, cancelreader.ErrCanceled) && !errors.Is(err, io.EOF) {
				select {
				case in.errs <- err:
				default:
				}
			}
			return
		}

		ev, decErr := in.decoder.Feed(b)
		if decErr != nil {
			select {
			case in.errs <- decErr:
			default:
			}
		}

		pendingEsc = b == 0x1B
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		if pendingEsc {
			timer = time.AfterFunc(escTimeout, func() {
				if ev := in.decoder.Flush(); ev != nil {
					in.events <- ev
				}
			})
			continue
		}
		if ev != nil {
			in.events <- ev
		}
	}
}

// Errs returns the channel decode/read errors are reported on,
// best-effort (buffered depth 1; a full buffer drops the error rather than
// blocking the read loop, since decode errors always self-recover via
// KeyEvent{Name: KeyUnknown}).
func (in *Input) Errs() <-chan error { return in.errs }
