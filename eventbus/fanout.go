package eventbus

import "polarapocalypse/game"

// Fanout forwards every event to each listener in order. Nil entries are skipped.
type Fanout []game.Listener

var _ game.Listener = Fanout(nil)

// Notify forwards n to every listener
func (f Fanout) Notify(n game.Notification) {
	for _, l := range f {
		if l != nil {
			l.Notify(n)
		}
	}
}

// Cue forwards c to every listener
func (f Fanout) Cue(c game.Cue) {
	for _, l := range f {
		if l != nil {
			l.Cue(c)
		}
	}
}

// StateChanged forwards the transition to every listener
func (f Fanout) StateChanged(from, to game.State) {
	for _, l := range f {
		if l != nil {
			l.StateChanged(from, to)
		}
	}
}
