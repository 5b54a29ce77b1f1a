// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall_test

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/xcall"
)

// newLoop creates a Sched whose autorun hosts it on a fresh goroutine,
// the way an application hosts an event loop.
func newLoop() *xcall.Sched {
	s := &xcall.Sched{}
	s.Autorun(func() { go s.Run() })
	return s
}

// waitFlag blocks until f becomes nonzero, with adaptive backoff.
// Used to join test goroutines with scheduler-side completion callbacks.
func waitFlag(f *atomix.Uint32) {
	var bo iox.Backoff
	for f.Load() == 0 {
		bo.Wait()
	}
}

// awaitFiber spawns m as a fiber on s and blocks the calling goroutine
// until the fiber completes, returning its result.
func awaitFiber[R any](s *xcall.Sched, m kont.Eff[R]) R {
	var (
		out  R
		done atomix.Uint32
	)
	xcall.Go(s, m, func(r R) {
		out = r
		done.Store(1)
	})
	waitFlag(&done)
	return out
}

// awaitExpr is the Expr-world counterpart of awaitFiber.
func awaitExpr[R any](s *xcall.Sched, m kont.Expr[R]) R {
	var (
		out  R
		done atomix.Uint32
	)
	xcall.GoExpr(s, m, func(r R) {
		out = r
		done.Store(1)
	})
	waitFlag(&done)
	return out
}
