package domain

// IndexStatus is the observable state of the index store.
// There are exactly three states a concurrent reader can see.
type IndexStatus string

const (
	// StatusBuilding means no usable store is open yet; queries should
	// report a retry signal rather than blocking.
	StatusBuilding IndexStatus = "building"

	// StatusReady means a complete store is open and queries succeed.
	StatusReady IndexStatus = "ready"

	// StatusError means the last build attempt failed and no store is
	// available; queries report the failure reason.
	StatusError IndexStatus = "error"
)

// IndexState is a snapshot of the index status for readers.
type IndexState struct {
	// Status is the current store state.
	Status IndexStatus

	// Err is the last build failure, empty unless Status is error.
	Err string

	// Stats are the counts from the last successful build.
	Stats IndexStats
}

// IndexStats are the entity counts produced by one index build.
// Counts reflect only files that parsed successfully.
type IndexStats struct {
	// DocCount is the number of persisted doc chunks.
	DocCount int

	// ClassCount is the number of persisted declarations.
	ClassCount int

	// MemberCount is the number of persisted members.
	MemberCount int
}
