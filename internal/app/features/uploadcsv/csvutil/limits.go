// internal/app/features/uploadcsv/csvutil/limits.go
package csvutil

// Default upload size and row limits for member CSV imports.
// Both are overridable through config (upload_max_bytes, csv_max_rows).
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)
