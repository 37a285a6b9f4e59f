package types

// ModelInfo describes one registered (id, version) spec and its load state.
type ModelInfo struct {
	// Stable identifier for the model.
	// example: sentiment
	ID string `json:"id" example:"sentiment"`
	// Semantic version of this spec.
	// example: 1.2.0
	Version string `json:"version" example:"1.2.0"`
	// Human-friendly description.
	// example: Sentence-level sentiment classifier
	Description string `json:"description,omitempty" example:"Sentence-level sentiment classifier"`
	// True when this model is the process-wide default.
	// example: true
	Default bool `json:"default,omitempty" example:"true"`
	// True when this version is the default for its model.
	// example: true
	DefaultVersion bool `json:"default_version,omitempty" example:"true"`
	// Critical models gate readiness.
	// example: true
	Critical bool `json:"critical,omitempty" example:"true"`
	// True when an instance is currently serving.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Device the live instance is bound to.
	// example: cuda:0
	Device string `json:"device,omitempty" example:"cuda:0"`
	// Load completion time in unix seconds.
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
	// Weight names the spec requires.
	RequiredWeights []string `json:"required_weights,omitempty"`
	// Weight names the spec uses when configured.
	OptionalWeights []string `json:"optional_weights,omitempty"`
	// Device preference declared by the spec.
	// example: gpu
	DevicePreference string `json:"device_preference,omitempty" example:"gpu"`
}

// ModelsResponse wraps the list returned by GET /models.
type ModelsResponse struct {
	// Every registered spec.
	Models []ModelInfo `json:"models"`
}

// VersionsResponse lists one model's versions, highest first.
type VersionsResponse struct {
	// Model id the versions belong to.
	// example: sentiment
	Model string `json:"model" example:"sentiment"`
	// Versions, highest first; the default version leads when flagged.
	Versions []string `json:"versions"`
}

// DeviceStatus describes one device in the pool.
type DeviceStatus struct {
	// Device id.
	// example: cuda:0
	ID string `json:"id" example:"cuda:0"`
	// Device class (gpu or cpu).
	// example: gpu
	Class string `json:"class" example:"gpu"`
	// Total memory in MB, when known.
	// example: 24576
	MemoryMB int `json:"memory_mb,omitempty" example:"24576"`
	// True while a model holds the device.
	// example: true
	InUse bool `json:"in_use" example:"true"`
}

// CacheInfo summarizes weight cache usage for /status and /admin/cache.
type CacheInfo struct {
	// Lookups served from disk.
	// example: 42
	Hits int64 `json:"hits" example:"42"`
	// Lookups that had to download.
	// example: 7
	Misses int64 `json:"misses" example:"7"`
	// Hits over total lookups, 0 when idle.
	// example: 0.857
	HitRate float64 `json:"hit_rate" example:"0.857"`
	// Bytes currently on disk.
	// example: 3221225472
	CurrentBytes int64 `json:"current_bytes" example:"3221225472"`
	// Configured size limit in bytes.
	// example: 10737418240
	MaxBytes int64 `json:"max_bytes" example:"10737418240"`
	// Number of cached files.
	// example: 5
	Files int `json:"files" example:"5"`
	// Files evicted since start.
	// example: 2
	EvictedFiles int64 `json:"evicted_files" example:"2"`
	// Bytes evicted since start.
	// example: 2147483648
	EvictedBytes int64 `json:"evicted_bytes" example:"2147483648"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Every registered spec with its load state.
	Models []ModelInfo `json:"models"`
	// Device pool with allocation flags.
	Devices []DeviceStatus `json:"devices"`
	// Weight cache usage.
	Cache CacheInfo `json:"cache"`
}
