package meili

import "time"

// TaskStatus is the lifecycle state of an asynchronous task.
type TaskStatus string

const (
	TaskStatusEnqueued   TaskStatus = "enqueued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSucceeded  TaskStatus = "succeeded"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusCanceled   TaskStatus = "canceled"
)

// IsTerminal reports whether the task will not change state again.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusSucceeded, TaskStatusFailed, TaskStatusCanceled:
		return true
	}
	return false
}

// TaskInfo is returned by every write operation.
type TaskInfo struct {
	TaskUID    int64      `json:"taskUid"`
	IndexUID   string     `json:"indexUid"`
	Status     TaskStatus `json:"status"`
	Type       string     `json:"type"`
	EnqueuedAt time.Time  `json:"enqueuedAt"`
}

// TaskError describes why a task failed.
type TaskError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Link    string `json:"link"`
}

// Task is the full state of an asynchronous operation.
type Task struct {
	UID        int64          `json:"uid"`
	IndexUID   string         `json:"indexUid"`
	Status     TaskStatus     `json:"status"`
	Type       string         `json:"type"`
	CanceledBy *int64         `json:"canceledBy"`
	Details    map[string]any `json:"details"`
	Error      *TaskError     `json:"error"`
	Duration   string         `json:"duration"`
	EnqueuedAt time.Time      `json:"enqueuedAt"`
	StartedAt  *time.Time     `json:"startedAt"`
	FinishedAt *time.Time     `json:"finishedAt"`
}

// TasksQuery filters the task list. Zero fields are omitted.
type TasksQuery struct {
	UIDs      []int64  `query:"uids,omitempty"`
	Statuses  []string `query:"statuses,omitempty"`
	Types     []string `query:"types,omitempty"`
	IndexUIDs []string `query:"indexUids,omitempty"`
	Limit     int64    `query:"limit,omitempty"`
	From      int64    `query:"from,omitempty"`
}

// TasksResults is one page of tasks.
type TasksResults struct {
	Results []Task `json:"results"`
	Limit   int64  `json:"limit"`
	From    *int64 `json:"from"`
	Next    *int64 `json:"next"`
	Total   int64  `json:"total"`
}

// IndexInfo describes an index.
type IndexInfo struct {
	UID        string    `json:"uid"`
	PrimaryKey string    `json:"primaryKey"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IndexConfig is the payload for index creation.
type IndexConfig struct {
	UID        string `json:"uid"`
	PrimaryKey string `json:"primaryKey,omitempty"`
}

// PageQuery paginates list routes.
type PageQuery struct {
	Offset int64 `query:"offset,omitempty"`
	Limit  int64 `query:"limit,omitempty"`
}

// IndexesResults is one page of indexes.
type IndexesResults struct {
	Results []IndexInfo `json:"results"`
	Offset  int64       `json:"offset"`
	Limit   int64       `json:"limit"`
	Total   int64       `json:"total"`
}

// DocumentsQuery selects a page of documents. Fields are sent comma-joined.
type DocumentsQuery struct {
	Offset int64    `query:"offset,omitempty"`
	Limit  int64    `query:"limit,omitempty"`
	Fields []string `query:"fields,omitempty"`
}

// DocumentsResults is one page of documents.
type DocumentsResults struct {
	Results []map[string]any `json:"results"`
	Offset  int64            `json:"offset"`
	Limit   int64            `json:"limit"`
	Total   int64            `json:"total"`
}

// Health is the server health report.
type Health struct {
	Status string `json:"status"`
}

// Version identifies the server build.
type Version struct {
	CommitSha  string `json:"commitSha"`
	CommitDate string `json:"commitDate"`
	PkgVersion string `json:"pkgVersion"`
}

// IndexStats are per-index statistics.
type IndexStats struct {
	NumberOfDocuments int64            `json:"numberOfDocuments"`
	IsIndexing        bool             `json:"isIndexing"`
	FieldDistribution map[string]int64 `json:"fieldDistribution"`
}

// Stats are instance-wide statistics.
type Stats struct {
	DatabaseSize int64                 `json:"databaseSize"`
	LastUpdate   *time.Time            `json:"lastUpdate"`
	Indexes      map[string]IndexStats `json:"indexes"`
}

// Key is an API key as returned by the server.
type Key struct {
	UID         string     `json:"uid"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Actions     []string   `json:"actions"`
	Indexes     []string   `json:"indexes"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// KeysResults is one page of keys.
type KeysResults struct {
	Results []Key `json:"results"`
	Offset  int64 `json:"offset"`
	Limit   int64 `json:"limit"`
	Total   int64 `json:"total"`
}
