package monitor

import (
	"fmt"
	"sync"
	"time"
)

// Trigger entrega os instantes em que a sincronização deve rodar
type Trigger interface {
	C() <-chan time.Time
	Stop()
}

// Clock abstrai o relógio para que o agendamento seja testável
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock é o relógio real do processo
var SystemClock Clock = realClock{}

// TimeOfDay é um horário local, como 01:00
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay lê um horário no formato HH:MM
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("horário inválido %q: use HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Next devolve a próxima ocorrência do horário estritamente depois de now
func (t TimeOfDay) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// DailyTrigger dispara uma vez por dia no horário configurado
type DailyTrigger struct {
	at    TimeOfDay
	clock Clock
	c     chan time.Time
	done  chan struct{}
	once  sync.Once
}

// NewDailyTrigger cria o trigger e começa a contar até o próximo horário
func NewDailyTrigger(at TimeOfDay, clock Clock) *DailyTrigger {
	t := &DailyTrigger{
		at:    at,
		clock: clock,
		c:     make(chan time.Time, 1),
		done:  make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *DailyTrigger) C() <-chan time.Time { return t.c }

func (t *DailyTrigger) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *DailyTrigger) loop() {
	for {
		now := t.clock.Now()
		wait := t.at.Next(now).Sub(now)

		select {
		case <-t.done:
			return
		case firedAt := <-t.clock.After(wait):
			select {
			case t.c <- firedAt:
			default:
				// o consumidor ainda não leu o disparo anterior
			}
		}
	}
}
