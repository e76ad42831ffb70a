package progress

import "github.com/cskr/pubsub"

const (
	VALIDATION = "validation"
)

//Update is published on every validation progress change
type Update struct {
	Percent  int
	Complete bool
}

//Tracker fans out validation progress updates to any number of
//subscribers without blocking the publisher
type Tracker struct {
	ps *pubsub.PubSub
}

func NewTracker() *Tracker {
	return &Tracker{ps: pubsub.New(100)}
}

func (t *Tracker) Publish(percent int, complete bool) {
	t.ps.TryPub(Update{Percent: percent, Complete: complete}, VALIDATION)
}

func (t *Tracker) Subscribe() chan interface{} {
	return t.ps.Sub(VALIDATION)
}

func (t *Tracker) Unsubscribe(ch chan interface{}) {
	t.ps.Unsub(ch, VALIDATION)
}
