package engine

// QueueJob is one held job from the device queue snapshot.
type QueueJob struct {
	ID       string
	RawTitle string
}

// Match returns every job in the snapshot whose normalized title equals key,
// in snapshot order. Duplicate titles are returned as independent matches;
// each one gets its own print attempt downstream.
func Match(key string, snapshot []QueueJob) []QueueJob {
	var matched []QueueJob
	for _, job := range snapshot {
		if Normalize(job.RawTitle) == key {
			matched = append(matched, job)
		}
	}
	return matched
}
