package domain

// Stats holds the dashboard counters derived from a task sequence.
type Stats struct {
	Total        int `json:"totalTasks"`
	Completed    int `json:"completedTasks"`
	Pending      int `json:"pendingTasks"`
	HighPriority int `json:"highPriorityTasks"`
}

// ComputeStats derives counters from tasks. HighPriority only counts pending tasks.
func ComputeStats(tasks []Task) Stats {
	stats := Stats{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
			continue
		}
		stats.Pending++
		if task.Priority == PriorityHigh {
			stats.HighPriority++
		}
	}
	return stats
}
