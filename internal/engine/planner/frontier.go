package planner

// frontierItem is one open-set entry. seq is the push order and breaks ties
// between equal estimates so the popped order, and therefore the route, is
// deterministic.
type frontierItem struct {
	estimate int
	cost     int
	seq      uint64
	node     string
}

// frontier implements container/heap.Interface as a min-heap on
// (estimate, seq).
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].estimate == f[j].estimate {
		return f[i].seq < f[j].seq
	}
	return f[i].estimate < f[j].estimate
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
