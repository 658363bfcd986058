package domain

import "strings"

// MatchesSearch reports whether the title contains term, ignoring case.
func MatchesSearch(task Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), strings.ToLower(term))
}

// FilterTasks returns the tasks matching term in their original order.
func FilterTasks(tasks []Task, term string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if MatchesSearch(task, term) {
			out = append(out, task)
		}
	}
	return out
}
