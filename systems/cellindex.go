package systems

import "github.com/mlange-42/ark/ecs"

// cellIndex lists the entities standing on each cell, in arrival order.
type cellIndex [][]ecs.Entity

func (ci cellIndex) add(i int, e ecs.Entity) {
	ci[i] = append(ci[i], e)
}

func (ci cellIndex) remove(i int, e ecs.Entity) {
	list := ci[i]
	for k, other := range list {
		if other == e {
			ci[i] = append(list[:k], list[k+1:]...)
			return
		}
	}
}

func (ci cellIndex) move(from, to int, e ecs.Entity) {
	if from == to {
		return
	}
	ci.remove(from, e)
	ci.add(to, e)
}

func (ci cellIndex) first(i int) (ecs.Entity, bool) {
	if len(ci[i]) == 0 {
		return ecs.Entity{}, false
	}
	return ci[i][0], true
}

func (ci cellIndex) has(i int, e ecs.Entity) bool {
	for _, other := range ci[i] {
		if other == e {
			return true
		}
	}
	return false
}

func (ci cellIndex) len() int {
	n := 0
	for _, list := range ci {
		n += len(list)
	}
	return n
}
