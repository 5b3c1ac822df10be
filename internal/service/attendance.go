package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/enrollment"
)

type FaceEncoder interface {
	Encode(ctx context.Context, image []byte) ([]float64, error)
}

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type SampleWriter interface {
	Create(ctx context.Context, sample *domain.FaceSample) error
}

type AttendanceLedger interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	LastForEmployee(ctx context.Context, employeeID int64) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error)
}

type ModelRegistry interface {
	Active() (*domain.ModelArtifact, error)
	Publish(ctx context.Context, artifact *domain.ModelArtifact) error
}

type ModelTrainer interface {
	Train(set domain.TrainingSet) (*domain.ModelArtifact, error)
}

// RetrainNotifier delivers retrain-completion events. Best effort; delivery
// failures never fail the retrain.
type RetrainNotifier interface {
	RetrainCompleted(ctx context.Context, metrics domain.TrainingMetrics)
}

// EnrollResult reports one accepted enrollment capture.
type EnrollResult struct {
	EmployeeID  int64 `json:"employee_id"`
	SampleCount int   `json:"sample_count"`
}

// CheckinResult is the outcome of one recognition call plus what the
// attendance ledger did with it.
type CheckinResult struct {
	Recognition domain.RecognitionResult `json:"recognition"`
	Attendance  *domain.AttendanceRecord `json:"attendance,omitempty"`
	Message     string                   `json:"message,omitempty"`
}

type AttendanceService struct {
	encoder        FaceEncoder
	store          *enrollment.Store
	trainer        ModelTrainer
	registry       ModelRegistry
	employeeRepo   EmployeeReader
	sampleRepo     SampleWriter
	attendanceRepo AttendanceLedger
	notifier       RetrainNotifier
	minCheckinGap  time.Duration
	logger         *slog.Logger

	// retrainMu gives retrain its single-flight semantics: a concurrent
	// request is rejected, never queued behind the running one.
	retrainMu sync.Mutex
}

func NewAttendanceService(
	encoder FaceEncoder,
	store *enrollment.Store,
	trainer ModelTrainer,
	registry ModelRegistry,
	employeeRepo EmployeeReader,
	sampleRepo SampleWriter,
	attendanceRepo AttendanceLedger,
	notifier RetrainNotifier,
	minCheckinGap time.Duration,
	logger *slog.Logger,
) *AttendanceService {
	return &AttendanceService{
		encoder:        encoder,
		store:          store,
		trainer:        trainer,
		registry:       registry,
		employeeRepo:   employeeRepo,
		sampleRepo:     sampleRepo,
		attendanceRepo: attendanceRepo,
		notifier:       notifier,
		minCheckinGap:  minCheckinGap,
		logger:         logger,
	}
}

// Enroll encodes one capture for an active employee and adds it to the
// training pool. Repeated captures accumulate; nothing is deduplicated.
func (s *AttendanceService) Enroll(ctx context.Context, employeeID int64, image []byte) (*EnrollResult, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.Active {
		return nil, domain.ErrEmployeeInactive
	}

	vector, err := s.encoder.Encode(ctx, image)
	if err != nil {
		return nil, err
	}

	sample := domain.FaceSample{
		EmployeeID: employeeID,
		Vector:     vector,
		CapturedAt: time.Now().UTC(),
	}

	if err := s.sampleRepo.Create(ctx, &sample); err != nil {
		return nil, fmt.Errorf("enroll employee %d: %w", employeeID, err)
	}

	s.store.Add(sample.EmployeeID, sample.Vector, sample.CapturedAt)

	return &EnrollResult{
		EmployeeID:  employeeID,
		SampleCount: s.store.CountFor(employeeID),
	}, nil
}

// Recognize runs the full inference pipeline against the model that is active
// when the call starts. A sub-threshold score is a legitimate "unknown"
// outcome with the score attached, not an error. Ledger writes are best
// effort and never fail the recognition.
func (s *AttendanceService) Recognize(ctx context.Context, image []byte) (*CheckinResult, error) {
	artifact, err := s.registry.Active()
	if err != nil {
		return nil, err
	}

	vector, err := s.encoder.Encode(ctx, image)
	if err != nil {
		return nil, err
	}

	projected, err := artifact.Project(vector)
	if err != nil {
		return nil, err
	}

	employeeID, score := artifact.Classify(projected)

	result := domain.RecognitionResult{
		Score:        score,
		Threshold:    artifact.Threshold,
		ModelVersion: artifact.Version,
	}
	if score >= artifact.Threshold {
		result.Known = true
		result.EmployeeID = &employeeID
	}

	checkin := &CheckinResult{Recognition: result}

	if result.Known {
		s.recordKnown(ctx, checkin, employeeID, score)
	} else {
		s.recordUnknown(ctx, checkin, score)
	}

	return checkin, nil
}

// recordKnown applies the ledger rules for a recognized employee: the check
// direction alternates IN/OUT, and a check arriving before the minimum gap
// has passed is dropped with a message instead of an error.
func (s *AttendanceService) recordKnown(ctx context.Context, checkin *CheckinResult, employeeID int64, score float64) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		s.logger.Warn("attendance skipped, employee lookup failed",
			slog.Int64("employee_id", employeeID), slog.Any("error", err))
		return
	}

	last, err := s.attendanceRepo.LastForEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Warn("attendance skipped, history lookup failed",
			slog.Int64("employee_id", employeeID), slog.Any("error", err))
		return
	}

	checkType := domain.CheckTypeIn
	if last != nil {
		if gap := time.Since(last.CreatedAt); gap < s.minCheckinGap {
			checkin.Message = fmt.Sprintf("already checked %s %s ago, wait %s between checks",
				last.CheckType, gap.Round(time.Second), s.minCheckinGap)
			return
		}
		if last.CheckType == domain.CheckTypeIn {
			checkType = domain.CheckTypeOut
		}
	}

	record := domain.AttendanceRecord{
		EmployeeID: &employee.ID,
		Code:       employee.Code,
		Name:       employee.Name,
		CheckType:  checkType,
		Score:      score,
	}

	if err := s.attendanceRepo.Create(ctx, &record); err != nil {
		s.logger.Warn("attendance write failed",
			slog.Int64("employee_id", employeeID), slog.Any("error", err))
		return
	}

	checkin.Attendance = &record
}

// recordUnknown keeps rejected recognitions in the ledger for auditing.
func (s *AttendanceService) recordUnknown(ctx context.Context, checkin *CheckinResult, score float64) {
	record := domain.AttendanceRecord{
		Name:      "Unknown",
		CheckType: domain.CheckTypeIn,
		Score:     score,
		IsUnknown: true,
	}

	if err := s.attendanceRepo.Create(ctx, &record); err != nil {
		s.logger.Warn("unknown attendance write failed", slog.Any("error", err))
		return
	}

	checkin.Attendance = &record
}

// Retrain runs one training pass over a snapshot of the enrollment pool and
// publishes the result. Only one retrain runs at a time; a concurrent call
// gets domain.ErrRetrainInProgress immediately.
func (s *AttendanceService) Retrain(ctx context.Context) (*domain.TrainingMetrics, error) {
	if !s.retrainMu.TryLock() {
		return nil, domain.ErrRetrainInProgress
	}
	defer s.retrainMu.Unlock()

	snapshot := s.store.Snapshot()

	set, inactive, err := s.filterActive(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	artifact, err := s.trainer.Train(set)
	if err != nil {
		return nil, err
	}

	// Employees dropped for being inactive are reported the same way the
	// trainer reports employees short on samples.
	if len(inactive) > 0 {
		artifact.Metrics.Excluded = append(artifact.Metrics.Excluded, inactive...)
		sort.Slice(artifact.Metrics.Excluded, func(i, j int) bool {
			return artifact.Metrics.Excluded[i].EmployeeID < artifact.Metrics.Excluded[j].EmployeeID
		})
	}

	if err := s.registry.Publish(ctx, artifact); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.RetrainCompleted(ctx, artifact.Metrics)
	}

	return &artifact.Metrics, nil
}

// filterActive drops samples of employees that are missing or deactivated in
// the directory before training sees them.
func (s *AttendanceService) filterActive(ctx context.Context, snapshot domain.TrainingSet) (domain.TrainingSet, []domain.ExcludedEmployee, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return domain.TrainingSet{}, nil, fmt.Errorf("retrain: list employees: %w", err)
	}

	active := make(map[int64]bool, len(employees))
	for _, e := range employees {
		if e.Active {
			active[e.ID] = true
		}
	}

	filtered := domain.TrainingSet{TakenAt: snapshot.TakenAt}
	droppedCounts := make(map[int64]int)
	for _, sample := range snapshot.Samples {
		if active[sample.EmployeeID] {
			filtered.Samples = append(filtered.Samples, sample)
		} else {
			droppedCounts[sample.EmployeeID]++
		}
	}

	var inactive []domain.ExcludedEmployee
	for id, count := range droppedCounts {
		inactive = append(inactive, domain.ExcludedEmployee{EmployeeID: id, SampleCount: count})
	}
	sort.Slice(inactive, func(i, j int) bool { return inactive[i].EmployeeID < inactive[j].EmployeeID })

	return filtered, inactive, nil
}

// ActiveModel exposes the current artifact's metrics.
func (s *AttendanceService) ActiveModel() (*domain.TrainingMetrics, error) {
	artifact, err := s.registry.Active()
	if err != nil {
		return nil, err
	}
	return &artifact.Metrics, nil
}

// History lists attendance records, newest first.
func (s *AttendanceService) History(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	return s.attendanceRepo.List(ctx, filter)
}
