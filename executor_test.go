// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/xcall"
	"github.com/b97tsk/async"
)

func TestExecutorVariantRoundTrip(t *testing.T) {
	skipRace(t)
	var exec async.Executor
	exec.Autorun(func() { go exec.Run() })

	ctl, err := xcall.New(xcall.ExecutorNotifier(&exec))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { ctl.Close(); ctl.Join() }()

	h, _ := xcall.Send(ctl, func() (string, error) { return "pong", nil })

	var (
		got  string
		done atomix.Uint32
	)
	exec.Spawn(xcall.AwaitThen(h, func(v string, err error) async.Task {
		return async.Do(func() {
			if err == nil {
				got = v
			}
			done.Store(1)
		})
	}))
	waitFlag(&done)

	if got != "pong" {
		t.Fatalf("coroutine observed %q, want %q", got, "pong")
	}
}

func TestExecutorVariantManualWatch(t *testing.T) {
	skipRace(t)
	// The raw awaiting pattern behind AwaitThen: watch the readiness
	// event, yield, poll when resumed.
	var exec async.Executor
	exec.Autorun(func() { go exec.Run() })

	ctl, _ := xcall.New(xcall.ExecutorNotifier(&exec))
	defer func() { ctl.Close(); ctl.Join() }()

	// Gate so the first coroutine pass observes a pending handle.
	var gate atomix.Uint32
	h, _ := xcall.Send(ctl, func() (int, error) {
		waitFlag(&gate)
		return 64, nil
	})

	var (
		got    int
		passes atomix.Uint32
		done   atomix.Uint32
	)
	exec.Spawn(func(co *async.Coroutine) async.Result {
		passes.Add(1)
		if !h.Ready() {
			gate.Store(1)
			return co.Yield(h.Event())
		}
		v, err := h.TryResult()
		if err == nil {
			got = v
		}
		done.Store(1)
		return co.End()
	})
	waitFlag(&done)

	if got != 64 {
		t.Fatalf("coroutine observed %d, want 64", got)
	}
	if passes.Load() < 2 {
		t.Fatalf("coroutine ran %d passes, want a pending pass then a resume", passes.Load())
	}
}

func TestExecutorVariantFailure(t *testing.T) {
	skipRace(t)
	var exec async.Executor
	exec.Autorun(func() { go exec.Run() })

	ctl, _ := xcall.New(xcall.ExecutorNotifier(&exec))
	defer func() { ctl.Close(); ctl.Join() }()

	boom := errors.New("boom")
	h, _ := xcall.Send(ctl, func() (int, error) { return 0, boom })

	var (
		got  error
		done atomix.Uint32
	)
	exec.Spawn(xcall.AwaitThen(h, func(_ int, err error) async.Task {
		return async.Do(func() {
			got = err
			done.Store(1)
		})
	}))
	waitFlag(&done)

	if !errors.Is(got, boom) {
		t.Fatalf("coroutine observed %v, want boom", got)
	}
}
