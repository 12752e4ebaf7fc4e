package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"sharekit/internal/database"
	"sharekit/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	TaskReport = "report"
)

// reportTaskPayload is persisted in ExportTask.Payload as JSON.
type reportTaskPayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportExporter renders a booking report into a file and returns its path.
type ReportExporter interface {
	WriteReport(ctx context.Context, start, end time.Time, bookings []*models.Booking) (string, error)
}

// ExportWorker consumes export_queue tasks and renders report files.
type ExportWorker struct {
	db            *database.DB
	exporter      ReportExporter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.ExportTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *log.Logger
}

// NewExportWorker builds a worker with sane defaults.
func NewExportWorker(db *database.DB, exporter ReportExporter, redisClient *redis.Client, retry RetryPolicy, logger *log.Logger) *ExportWorker {
	retry = retry.withDefaults()
	if logger == nil {
		logger = log.Default()
	}

	return &ExportWorker{
		db:            db,
		exporter:      exporter,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.ExportTask, models.WorkerQueueSize),
		redisQueueKey: "exports:queue",
		deadLetterKey: "exports:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

// EnqueueReport persists a report task and schedules it via redis or the
// in-memory queue.
func (w *ExportWorker) EnqueueReport(ctx context.Context, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.New("report period is required")
	}
	if end.Before(start) {
		return errors.New("report period end precedes start")
	}

	payloadBytes, err := json.Marshal(reportTaskPayload{Start: start, End: end})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	exportTask := models.ExportTask{
		TaskType:  TaskReport,
		Payload:   string(payloadBytes),
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	if err := w.db.CreateExportTask(ctx, &exportTask); err != nil {
		return fmt.Errorf("persist export task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, exportTask); err != nil {
			w.logger.Printf("export_worker: redis push failed, fallback to memory queue: %v", err)
		} else {
			return nil
		}
	}

	// Fallback to in-memory queue if redis missing or failed.
	select {
	case w.queue <- exportTask:
	default:
		w.logger.Printf("export_worker: in-memory queue full, task %d dropped to polling", exportTask.ID)
	}

	return nil
}

// Start launches main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Printf("export_worker: started")
	defer w.logger.Printf("export_worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingExportTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Printf("export_worker: fetch pending: %v", err)
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *ExportWorker) tryLocalQueue() (models.ExportTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.ExportTask{}, false
	}
}

func (w *ExportWorker) tryRedis(ctx context.Context) (models.ExportTask, bool) {
	if w.redis == nil {
		return models.ExportTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.ExportTask{}, false
		}
		w.logger.Printf("export_worker: redis BRPOP error: %v", err)
		return models.ExportTask{}, false
	}
	if len(res) != 2 {
		return models.ExportTask{}, false
	}
	var task models.ExportTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Printf("export_worker: decode redis task: %v", err)
		return models.ExportTask{}, false
	}
	return task, true
}

func (w *ExportWorker) processTask(ctx context.Context, task *models.ExportTask) {
	payload, err := w.decodePayload(task.Payload)
	if err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleReportTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Printf("export_worker: mark completed %d: %v", task.ID, err)
	}
}

func (w *ExportWorker) handleReportTask(ctx context.Context, taskType string, payload reportTaskPayload) error {
	switch taskType {
	case TaskReport:
		if payload.Start.IsZero() || payload.End.IsZero() {
			return errors.New("report period missing")
		}
		bookings, err := w.db.GetBookingsByDateRange(ctx, payload.Start, payload.End)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		_, err = w.exporter.WriteReport(ctx, payload.Start, payload.End, bookings)
		return err
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *ExportWorker) retryOrFail(ctx context.Context, task *models.ExportTask, cause error) {
	attempt := task.RetryCount + 1
	if w.retryPolicy.Exhausted(attempt) {
		if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
			w.logger.Printf("export_worker: mark failed %d: %v", task.ID, err)
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Printf("export_worker: mark retry %d: %v", task.ID, err)
	}
}

func (w *ExportWorker) failTask(ctx context.Context, task *models.ExportTask, err error) {
	if err := w.db.UpdateExportTaskStatus(ctx, task.ID, "failed", err.Error(), nil); err != nil {
		w.logger.Printf("export_worker: mark failed %d: %v", task.ID, err)
	}
	w.pushDeadLetter(ctx, task)
}

func (w *ExportWorker) decodePayload(raw string) (reportTaskPayload, error) {
	var payload reportTaskPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func (w *ExportWorker) pushRedis(ctx context.Context, task models.ExportTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *ExportWorker) pushDeadLetter(ctx context.Context, task *models.ExportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Printf("export_worker: encode deadletter %d: %v", task.ID, err)
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Printf("export_worker: deadletter push %d: %v", task.ID, err)
	}
}
