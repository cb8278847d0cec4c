package proc

import (
	"claudeos/kernel/mem/heap"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeCore runs halt on every Halt so tests can inject timer ticks.
type fakeCore struct {
	ifSet atomic.Bool
	halt  func()
}

func (c *fakeCore) EnableInterrupts()       { c.ifSet.Store(true) }
func (c *fakeCore) DisableInterrupts()      { c.ifSet.Store(false) }
func (c *fakeCore) InterruptsEnabled() bool { return c.ifSet.Load() }
func (c *fakeCore) Halt() {
	if c.halt != nil {
		c.halt()
	}
}

func newThreadedScheduler(t *testing.T) (*Scheduler, *fakeCore) {
	h := heap.New()
	h.Init()

	clock := &fakeClock{msPerTick: 10}
	core := &fakeCore{}
	s := New(core, h, clock, NewThreadSwitcher(core))
	core.halt = func() {
		clock.ticks++
		s.Tick(clock.ticks)
	}

	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s, core
}

func TestThreadSwitcher(t *testing.T) {
	s, core := newThreadedScheduler(t)
	core.EnableInterrupts()

	var log []string
	pid, _ := s.Create("worker", func() {
		log = append(log, "a")
		core.DisableInterrupts()
		s.Yield()
		log = append(log, "c")
	}, Normal)

	s.Yield()
	if s.Current().PID != InitPID {
		t.Fatalf("expected init to get the processor back; current is %d", s.Current().PID)
	}
	log = append(log, "b")

	s.Yield()
	if exp := "a,b,c"; strings.Join(log, ",") != exp {
		t.Fatalf("expected execution order %q; got %q", exp, strings.Join(log, ","))
	}

	if st := s.Get(pid).State; st != Terminated {
		t.Fatalf("expected worker to exit after its entry returned; got %s", st)
	}

	if !core.InterruptsEnabled() {
		t.Fatal("expected init's interrupt flag to be restored")
	}

	if s.Count() != 2 {
		t.Fatalf("expected 2 active processes; got %d", s.Count())
	}
}

func TestThreadSwitcherRelease(t *testing.T) {
	s, _ := newThreadedScheduler(t)

	neverRun, _ := s.Create("pending", func() {
		t.Error("expected killed process never to run")
	}, Normal)
	if err := s.Kill(neverRun); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	pid, _ := s.Create("parked", func() {
		defer close(done)
		s.Yield()
		t.Error("expected parked process not to resume after being killed")
	}, Normal)

	s.Yield()
	if err := s.Kill(pid); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the killed process goroutine to exit")
	}
}
