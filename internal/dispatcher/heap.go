package dispatcher

import "github.com/KrolPaul/call-center/internal/cdr"

// inFlightHeap orders dispatched CDRs by endDT, the earliest call to
// complete always at index 0 (spec invariant I5). CallID is the
// tie-break for calls sharing an identical endDT, since completion
// order between them is otherwise unspecified.
type inFlightHeap []cdr.CDR

func (h inFlightHeap) Len() int { return len(h) }

func (h inFlightHeap) Less(i, j int) bool {
	if h[i].EndDT.Equal(h[j].EndDT) {
		return h[i].CallID < h[j].CallID
	}
	return h[i].EndDT.Before(h[j].EndDT)
}

func (h inFlightHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *inFlightHeap) Push(x any) {
	*h = append(*h, x.(cdr.CDR))
}

func (h *inFlightHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
