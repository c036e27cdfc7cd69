package ports

// ChatMetrics observes the request-orchestration outcomes.
type ChatMetrics interface {
	RecordCompletion(status int)
	RecordTransportFailure()
	RecordMemorySearch(hits int)
	RecordBackgroundStore()
}
