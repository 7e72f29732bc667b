package events

import "sort"

// SortByNight orders events by night index, keeping the relative order of
// events on the same night.
func SortByNight(events []NightEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Night() < events[j].Night()
	})
}

// Merge combines two lists sorted by night into one sorted list in a
// single pass. On the same night stored events come first, and a fresh
// polar light alert is dropped when that night already has one.
func Merge(stored, fresh []NightEvent) []NightEvent {
	out := make([]NightEvent, 0, len(stored)+len(fresh))
	lastPolarNight, havePolar := 0, false

	emit := func(e NightEvent) {
		out = append(out, e)
		if e.IsPolarLight() {
			lastPolarNight, havePolar = e.Night(), true
		}
	}
	emitFresh := func(e NightEvent) {
		if e.IsPolarLight() && havePolar && lastPolarNight == e.Night() {
			return
		}
		emit(e)
	}

	i, j := 0, 0
	for i < len(stored) && j < len(fresh) {
		if stored[i].Night() <= fresh[j].Night() {
			emit(stored[i])
			i++
		} else {
			emitFresh(fresh[j])
			j++
		}
	}
	for ; i < len(stored); i++ {
		emit(stored[i])
	}
	for ; j < len(fresh); j++ {
		emitFresh(fresh[j])
	}
	return out
}
