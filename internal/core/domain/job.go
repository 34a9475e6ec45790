package domain

// JobKind tags a job variant
type JobKind string

const (
	JobKindDerivative       JobKind = "derivative"
	JobKindRemoteDerivative JobKind = "remote_derivative"
)

// JobState is the lifecycle of a queued job
type JobState string

const (
	JobStateEnqueued  JobState = "enqueued"
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// ThumbnailQuality is the fixed encode quality of thumbnails
const ThumbnailQuality = 90

// DefaultQuality is used when the caller does not ask for a quality
const DefaultQuality = 80

// Job is the closed set of background jobs. Discard releases whatever the job owns when
// it is dropped without running.
type Job interface {
	Kind() JobKind
	Key() string
	Discard()
}

// DerivativeJob renders derivatives from a file already staged on local disk.
// The job exclusively owns File once enqueued.
type DerivativeJob struct {
	File          StagedFile
	OriginalKey   string
	DerivativeKey string
	Quality       int
}

func (j *DerivativeJob) Kind() JobKind { return JobKindDerivative }

func (j *DerivativeJob) Key() string { return j.OriginalKey }

func (j *DerivativeJob) Discard() {
	if j.File != nil {
		j.File.Dispose()
	}
}

// RemoteDerivativeJob renders derivatives of an original that only exists in storage.
// It owns no local resource and may cross process boundaries.
type RemoteDerivativeJob struct {
	OriginalKey   string `json:"original_key"`
	DerivativeKey string `json:"derivative_key"`
	Quality       int    `json:"quality"`
}

func (j *RemoteDerivativeJob) Kind() JobKind { return JobKindRemoteDerivative }

func (j *RemoteDerivativeJob) Key() string { return j.OriginalKey }

func (j *RemoteDerivativeJob) Discard() {}

// ClampQuality bounds q to [0,100]
func ClampQuality(q int) int {
	switch {
	case q < 0:
		return 0
	case q > 100:
		return 100
	default:
		return q
	}
}
