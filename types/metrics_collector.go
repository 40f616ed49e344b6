package types

// MetricsCollector defines methods for recording partition table metrics.
//
// Implementations should be non-blocking. Tables call them synchronously from
// whichever goroutine drives the table, so an implementation shared between tables
// must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces.
type MetricsCollector interface {
	TableMetrics
	CodecMetrics
}

// TableMetrics defines metrics for group lifecycle operations.
type TableMetrics interface {
	// RecordGroupCreated records a CreateGroup call.
	//
	// Parameters:
	//   - table: Table name set with WithName ("" if unnamed)
	RecordGroupCreated(table string)

	// RecordGroupDeleted records a successful DeleteGroup call.
	RecordGroupDeleted(table string)

	// RecordActiveGroups sets the current number of active groups (gauge metric).
	RecordActiveGroups(table string, count int)
}

// CodecMetrics defines metrics for serialization.
type CodecMetrics interface {
	// RecordSerialize records a completed serialization.
	//
	// Parameters:
	//   - kind: State kind ("Table", "FixedTable", "TableHyper", "FixedTableHyper")
	//   - size: Blob size in bytes including the header
	//   - duration: Time taken in seconds
	RecordSerialize(kind string, size int, duration float64)

	// RecordDeserialize records a decode attempt.
	//
	// Parameters:
	//   - kind: State kind expected by the caller
	//   - size: Input size in bytes
	//   - duration: Time taken in seconds
	//   - success: false if the blob was rejected
	RecordDeserialize(kind string, size int, duration float64, success bool)

	// RecordCompression records the body compression ratio (compressed / original).
	//
	// Parameters:
	//   - algorithm: Compression name ("None", "Zstd", "S2", "LZ4")
	//   - ratio: Compressed size divided by original size
	RecordCompression(algorithm string, ratio float64)
}
