package handlers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reminora/photovec/internal/engine"
)

// EmbedJobState is the serializable state of a batch embedding sweep.
type EmbedJobState struct {
	ID              string              `json:"id"`
	Status          JobStatus           `json:"status"`
	TotalPhotos     int                 `json:"total_photos"`
	ProcessedPhotos int                 `json:"processed_photos"`
	Result          *engine.BatchResult `json:"result,omitempty"`
	Error           string              `json:"error,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
}

// EmbedJob tracks a batch embedding sweep running in the background.
type EmbedJob struct {
	EventBroadcaster

	mu    sync.RWMutex
	state EmbedJobState
}

// GetStatus returns the current job status.
func (j *EmbedJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state.Status
}

// Snapshot returns a copy of the job state safe to serialize.
func (j *EmbedJob) Snapshot() EmbedJobState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// EmbedJobManager runs at most one embedding sweep at a time and keeps
// finished jobs around so their status can still be queried.
type EmbedJobManager struct {
	engine *engine.Engine
	stats  *StatsHandler

	mu   sync.RWMutex
	jobs map[string]*EmbedJob
}

// NewEmbedJobManager creates a new embed job manager.
func NewEmbedJobManager(eng *engine.Engine, stats *StatsHandler) *EmbedJobManager {
	return &EmbedJobManager{
		engine: eng,
		stats:  stats,
		jobs:   make(map[string]*EmbedJob),
	}
}

func (m *EmbedJobManager) getJob(id string) *EmbedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

func (m *EmbedJobManager) runningJob() *EmbedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, job := range m.jobs {
		if !isJobTerminal(job.GetStatus()) {
			return job
		}
	}
	return nil
}

// Start handles POST /api/v1/process. It launches a background sweep that
// computes embeddings for every new or modified photo in the library.
func (m *EmbedJobManager) Start(w http.ResponseWriter, r *http.Request) {
	if running := m.runningJob(); running != nil {
		respondError(w, http.StatusConflict, "an embedding sweep is already running: "+running.Snapshot().ID)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &EmbedJob{
		state: EmbedJobState{
			ID:        uuid.New().String(),
			Status:    JobStatusPending,
			StartedAt: time.Now(),
		},
	}
	job.cancel = cancel

	m.mu.Lock()
	m.jobs[job.state.ID] = job
	m.mu.Unlock()

	go m.runEmbedJob(ctx, job)

	respondJSON(w, http.StatusAccepted, job.Snapshot())
}

// Status handles GET /api/v1/process/{jobId}.
func (m *EmbedJobManager) Status(w http.ResponseWriter, r *http.Request) {
	job := m.getJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Events handles GET /api/v1/process/{jobId}/events and streams job
// progress as server-sent events.
func (m *EmbedJobManager) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			if job := m.getJob(id); job != nil {
				return job
			}
			return nil
		},
		func(j SSEJob) any {
			return j.(*EmbedJob).Snapshot()
		},
	)
}

// Cancel handles DELETE /api/v1/process/{jobId}. Cancellation is
// cooperative: the sweep stops before the next photo and the job keeps
// the partial result.
func (m *EmbedJobManager) Cancel(w http.ResponseWriter, r *http.Request) {
	job := m.getJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if isJobTerminal(job.GetStatus()) {
		respondError(w, http.StatusConflict, "job already finished")
		return
	}

	if job.cancel != nil {
		job.cancel()
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
}

func (m *EmbedJobManager) runEmbedJob(ctx context.Context, job *EmbedJob) {
	job.mu.Lock()
	job.state.Status = JobStatusRunning
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "started", Message: "embedding sweep started"})

	result, err := m.engine.ComputeAllEmbeddings(ctx, func(processed, total int) {
		job.mu.Lock()
		job.state.ProcessedPhotos = processed
		job.state.TotalPhotos = total
		job.mu.Unlock()
		job.SendEvent(JobEvent{
			Type: "progress",
			Data: map[string]int{"processed": processed, "total": total},
		})
	})

	now := time.Now()
	job.mu.Lock()
	job.state.CompletedAt = &now
	job.state.Result = result
	switch {
	case ctx.Err() != nil:
		job.state.Status = JobStatusCancelled
	case err != nil:
		job.state.Status = JobStatusFailed
		job.state.Error = err.Error()
	default:
		job.state.Status = JobStatusCompleted
	}
	state := job.state
	job.mu.Unlock()

	if m.stats != nil {
		m.stats.InvalidateCache()
	}

	switch state.Status {
	case JobStatusFailed:
		log.Printf("embedding sweep %s failed: %v", state.ID, err)
		job.SendEvent(JobEvent{Type: "failed", Message: state.Error})
	case JobStatusCancelled:
		log.Printf("embedding sweep %s cancelled after %d photos", state.ID, state.ProcessedPhotos)
		job.SendEvent(JobEvent{Type: "cancelled", Data: state})
	default:
		job.SendEvent(JobEvent{Type: "completed", Data: state})
	}
}
