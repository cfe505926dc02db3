package signup

import (
	"sync"
	"time"
)

// DefaultNoticeDelay es cuánto permanece visible el aviso de envío.
const DefaultNoticeDelay = 3000 * time.Millisecond

// NoticeMessage es el texto que muestra la UI mientras el aviso está visible.
const NoticeMessage = "Submitted Successfully!"

// NoticeState es el estado del aviso transitorio.
type NoticeState string

const (
	NoticeIdle  NoticeState = "idle"
	NoticeShown NoticeState = "shown"
)

// Timer es una tarea programada cancelable.
type Timer interface {
	Stop() bool
}

// Scheduler programa callbacks diferidos.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealScheduler usa time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// NoticeView es una foto del aviso.
type NoticeView struct {
	State   NoticeState
	Message string
	ShownAt time.Time
}

// Visible reporta si el aviso está en estado shown.
func (v NoticeView) Visible() bool { return v.State == NoticeShown }

// Notice implementa la máquina idle/shown con auto-dismiss.
// Transiciones: idle->shown en Show, shown->idle al expirar el timer.
// Un Show estando shown cancela el timer pendiente y arranca uno nuevo.
type Notice struct {
	mu       sync.Mutex
	sched    Scheduler
	delay    time.Duration
	now      func() time.Time
	onChange func(NoticeState)
	state    NoticeState
	shownAt  time.Time
	pending  Timer
	gen      uint64
	closed   bool
}

// NewNotice crea un aviso en estado idle.
func NewNotice(sched Scheduler, delay time.Duration, onChange func(NoticeState)) *Notice {
	if sched == nil {
		sched = RealScheduler
	}
	if delay <= 0 {
		delay = DefaultNoticeDelay
	}
	return &Notice{
		sched:    sched,
		delay:    delay,
		now:      time.Now,
		onChange: onChange,
		state:    NoticeIdle,
	}
}

// Show pasa a shown y (re)programa la expiración.
func (n *Notice) Show() {
	if notify := n.show(); notify != nil {
		notify()
	}
}

// show aplica la transición bajo el lock y devuelve la notificación a
// invocar sin locks tomados (nil si no hay callback o el aviso está cerrado).
func (n *Notice) show() func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
	n.gen++
	gen := n.gen
	n.state = NoticeShown
	n.shownAt = n.now()
	n.pending = n.sched.AfterFunc(n.delay, func() { n.expire(gen) })

	cb := n.onChange
	if cb == nil {
		return nil
	}
	return func() { cb(NoticeShown) }
}

// expire sólo aplica si gen sigue siendo la programación vigente.
func (n *Notice) expire(gen uint64) {
	n.mu.Lock()
	if n.closed || gen != n.gen || n.state != NoticeShown {
		n.mu.Unlock()
		return
	}
	n.state = NoticeIdle
	n.shownAt = time.Time{}
	n.pending = nil
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(NoticeIdle)
	}
}

// View devuelve el estado actual.
func (n *Notice) View() NoticeView {
	n.mu.Lock()
	defer n.mu.Unlock()
	v := NoticeView{State: n.state, ShownAt: n.shownAt}
	if n.state == NoticeShown {
		v.Message = NoticeMessage
	}
	return v
}

// Close cancela cualquier expiración pendiente. Idempotente.
func (n *Notice) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	n.gen++
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
}
