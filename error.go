// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by [Send] after [Controller.Close].
// Submission and close are ordered under the controller mutex, so a
// rejected call is guaranteed not to have been enqueued behind the
// shutdown sentinel.
var ErrClosed = errors.New("xcall: controller closed")

// ErrNoRuntime is returned by [New] when no scheduler capability is
// provided. The bridge never guesses the active runtime; the caller
// selects a [Notifier] variant explicitly at construction time.
var ErrNoRuntime = errors.New("xcall: no scheduler runtime")

// PanicError is the failure outcome of a call whose thunk panicked on the
// worker goroutine. The panic is captured on the worker and delivered
// through the normal notifier path, so the awaiting caller observes a
// failed result instead of a dead worker.
type PanicError struct {
	// Value is the value the thunk panicked with.
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("xcall: call panicked: %v", e.Value)
}
