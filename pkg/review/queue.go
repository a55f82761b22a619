package review

// queueItem is a queue entry for one pending request. The sequence
// number keeps ordering stable for requests sharing a priority band and
// creation time.
type queueItem struct {
	request *ReviewRequest
	seq     uint64
	index   int
}

// reviewQueue is a min-heap ordered by priority rank, then creation
// time, then submission sequence. It implements container/heap and is
// only touched under the engine mutex.
type reviewQueue []*queueItem

func (q reviewQueue) Len() int { return len(q) }

func (q reviewQueue) Less(i, j int) bool {
	ri, rj := q[i].request.Priority.rank(), q[j].request.Priority.rank()
	if ri != rj {
		return ri < rj
	}
	if !q[i].request.CreatedAt.Equal(q[j].request.CreatedAt) {
		return q[i].request.CreatedAt.Before(q[j].request.CreatedAt)
	}
	return q[i].seq < q[j].seq
}

func (q reviewQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *reviewQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *reviewQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
