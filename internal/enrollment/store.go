// Package enrollment accumulates labeled feature vectors during capture
// sessions and hands the trainer point-in-time snapshots of them.
package enrollment

import (
	"sync"
	"time"

	"github.com/Phucht59/Face-detect/internal/domain"
)

// Store is the in-process collection of enrollment samples. Appends from
// concurrent capture calls are safe; snapshots are isolated from appends that
// happen after they are taken.
type Store struct {
	mu      sync.RWMutex
	samples []domain.FaceSample
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends one sample. Samples are never overwritten or deduplicated;
// repeated captures of the same pose simply accumulate more training signal.
func (s *Store) Add(employeeID int64, vector []float64, capturedAt time.Time) {
	sample := domain.FaceSample{
		EmployeeID: employeeID,
		Vector:     vector,
		CapturedAt: capturedAt,
	}

	s.mu.Lock()
	s.samples = append(s.samples, sample)
	s.mu.Unlock()
}

// Snapshot returns a stable point-in-time copy. Samples added afterwards land
// in the next training run, never in this snapshot.
func (s *Store) Snapshot() domain.TrainingSet {
	s.mu.RLock()
	samples := make([]domain.FaceSample, len(s.samples))
	copy(samples, s.samples)
	s.mu.RUnlock()

	return domain.TrainingSet{
		Samples: samples,
		TakenAt: time.Now().UTC(),
	}
}

// CountFor returns the number of samples held for one employee.
func (s *Store) CountFor(employeeID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, sample := range s.samples {
		if sample.EmployeeID == employeeID {
			count++
		}
	}
	return count
}

// Len returns the total number of samples held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// Replace swaps the entire contents, used to rehydrate from persistence at
// startup.
func (s *Store) Replace(samples []domain.FaceSample) {
	copied := make([]domain.FaceSample, len(samples))
	copy(copied, samples)

	s.mu.Lock()
	s.samples = copied
	s.mu.Unlock()
}

// RemoveEmployee drops every sample for one employee, used when an employee
// is deleted or re-enrolled from scratch.
func (s *Store) RemoveEmployee(employeeID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.samples[:0]
	removed := 0
	for _, sample := range s.samples {
		if sample.EmployeeID == employeeID {
			removed++
			continue
		}
		kept = append(kept, sample)
	}
	s.samples = kept
	return removed
}
