package monitor

import "sync"

// ProgressBar tracks how many of a fixed total of transactions have
// completed, for display on the dashboard while a scenario runs.
type ProgressBar struct {
	sync.Mutex
	ID         string `json:"id"`
	Name       string `json:"name"`
	Total      uint64 `json:"total"`
	Finished   uint64 `json:"finished"`
	InProgress uint64 `json:"in_progress"`
}

// IncrementInProgress adds amount in-flight transactions.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// MoveInProgressToFinished retires amount in-flight transactions as done.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}
