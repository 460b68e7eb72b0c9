// Package client implements the UI-facing import controller: a local state
// machine that tracks one import attempt end to end, fed by upload progress
// callbacks and server job snapshots.
package client

import (
	"sort"
	"strings"
	"sync"

	"github.com/drivelot/inventory-api/internal/domain/importjob"
	"github.com/drivelot/inventory-api/internal/domain/model"
)

// State is the controller's UI-facing phase. It extends the server lifecycle
// with the two client-local phases (idle, uploading) the server never sees.
type State string

const (
	StateIdle              State = "idle"
	StateUploading         State = "uploading"
	StateWaitingForPreview State = "waiting_for_preview"
	StatePreviewReady      State = "preview_ready"
	StateCommitting        State = "committing"
	StateCommitted         State = "committed"
	StateFailed            State = "failed"
)

// NameCount is one entry of a frequency ranking.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ImportController tracks one import attempt on the client. Safe for
// concurrent use: snapshot delivery, progress callbacks and UI reads may
// race freely.
//
// Snapshot application is monotonic: a snapshot ranking below the highest
// status already observed is discarded, and progress counters never move
// backward. Duplicate and out-of-order snapshots are therefore harmless.
type ImportController struct {
	mu sync.Mutex

	state          State
	job            *model.ImportJob
	previewRows    []*model.PreviewRow
	errorMessage   string
	uploadedBytes  int64
	totalBytes     int64
	serverProgress int

	stopWatch func()
}

// NewImportController returns a controller in the idle state.
func NewImportController() *ImportController {
	return &ImportController{state: StateIdle}
}

// State returns the current UI phase.
func (c *ImportController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Job returns the latest accepted server snapshot, or nil before one arrived.
func (c *ImportController) Job() *model.ImportJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// ErrorMessage returns the failure message when the controller is failed.
func (c *ImportController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// BeginUpload moves idle → uploading for a newly created job.
func (c *ImportController) BeginUpload(job *model.ImportJob, totalBytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.job = job
	c.state = StateUploading
	c.uploadedBytes = 0
	c.totalBytes = totalBytes
	c.serverProgress = 0
	c.previewRows = nil
	c.errorMessage = ""
}

// ReportUploadProgress is the byte-transfer callback. Progress never goes
// backward even if the transport reports out of order.
func (c *ImportController) ReportUploadProgress(sentBytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sentBytes > c.uploadedBytes {
		c.uploadedBytes = sentBytes
	}
}

// UploadDone moves uploading → waiting_for_preview once the PUT finished and
// the server confirmed the upload.
func (c *ImportController) UploadDone() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateUploading {
		c.uploadedBytes = c.totalBytes
		c.state = StateWaitingForPreview
	}
}

// UploadProgressPercent returns byte-transfer progress in [0,100].
func (c *ImportController) UploadProgressPercent() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.totalBytes <= 0 {
		return 0
	}
	return clampPercent(int(c.uploadedBytes * 100 / c.totalBytes))
}

// ServerProgressPercent returns commit progress in [0,100], derived from
// cars_processed over rows_total of the highest-ranked snapshot seen.
func (c *ImportController) ServerProgressPercent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverProgress
}

// ApplySnapshot reconciles one server snapshot into the controller. Returns
// true when the snapshot was accepted, false when it was discarded as stale.
func (c *ImportController) ApplySnapshot(job *model.ImportJob) bool {
	if job == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.job != nil && c.job.ID != job.ID {
		return false
	}
	if c.job != nil && !importjob.Supersedes(job.Status, c.job.Status) {
		return false
	}
	c.job = job

	if progress := serverPercent(job); progress > c.serverProgress {
		c.serverProgress = progress
	}

	switch job.Status {
	case model.ImportStatusUploaded:
		// The server is still pre-preview; keep the local upload phase.
		if c.state != StateUploading {
			c.state = StateWaitingForPreview
		}
	case model.ImportStatusPreviewReady:
		c.state = StatePreviewReady
	case model.ImportStatusCommitting:
		c.state = StateCommitting
	case model.ImportStatusCommitted:
		c.state = StateCommitted
		c.serverProgress = 100
	case model.ImportStatusFailed:
		c.state = StateFailed
		if job.ErrorMessage != nil {
			c.errorMessage = *job.ErrorMessage
		}
	}
	return true
}

// SetPreviewRows installs the parsed preview for stats and display.
func (c *ImportController) SetPreviewRows(rows []*model.PreviewRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previewRows = rows
}

// PreviewRows returns the installed preview rows.
func (c *ImportController) PreviewRows() []*model.PreviewRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewRows
}

// TopManufacturers ranks manufacturers across valid preview rows: count
// descending, ties broken by first appearance in the file.
func (c *ImportController) TopManufacturers(n int) []NameCount {
	return c.topField(n, func(rec model.VehicleRecord) *string { return rec.Manufacturer })
}

// TopModels ranks "manufacturer model" pairs across valid preview rows.
func (c *ImportController) TopModels(n int) []NameCount {
	return c.topField(n, func(rec model.VehicleRecord) *string {
		if rec.Model == nil {
			return nil
		}
		name := *rec.Model
		if rec.Manufacturer != nil {
			name = *rec.Manufacturer + " " + name
		}
		return &name
	})
}

func (c *ImportController) topField(n int, extract func(model.VehicleRecord) *string) []NameCount {
	c.mu.Lock()
	rows := c.previewRows
	c.mu.Unlock()

	if n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, row := range rows {
		if row.HasErrors() {
			continue
		}
		value := extract(row.Normalized)
		if value == nil {
			continue
		}
		name := strings.TrimSpace(*value)
		if name == "" {
			continue
		}
		if _, ok := counts[name]; !ok {
			firstSeen[name] = order
			order++
		}
		counts[name]++
	}

	ranked := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, NameCount{Name: name, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Name] < firstSeen[ranked[j].Name]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// BindWatch consumes a snapshot stream until it closes, applying each
// snapshot. The stop function is retained so Reset can end the watch.
func (c *ImportController) BindWatch(updates <-chan *model.ImportJob, stop func()) {
	c.mu.Lock()
	if c.stopWatch != nil {
		c.stopWatch()
	}
	c.stopWatch = stop
	c.mu.Unlock()

	go func() {
		for job := range updates {
			c.ApplySnapshot(job)
		}
	}()
}

// Reset cancels any live watch and returns the controller to idle, dropping
// all job-scoped state.
func (c *ImportController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
	c.state = StateIdle
	c.job = nil
	c.previewRows = nil
	c.errorMessage = ""
	c.uploadedBytes = 0
	c.totalBytes = 0
	c.serverProgress = 0
}

func serverPercent(job *model.ImportJob) int {
	if job.Summary.RowsTotal <= 0 {
		return 0
	}
	return clampPercent(job.Summary.CarsProcessed * 100 / job.Summary.RowsTotal)
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
