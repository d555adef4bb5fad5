package service

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Krishan098/fo/config"
	"github.com/Krishan098/fo/model"
)

// ErrNotFound is returned for contract ids the store has never seen or
// has already deleted.
var ErrNotFound = errors.New("contract not found")

// ContractStore keeps jobs, status records and result records in memory,
// keyed by contract id. The pipeline is the only status/result writer; the
// handlers only read. Entries live until explicit deletion or process exit.
type ContractStore struct {
	mu         sync.RWMutex
	jobs       map[string]*model.ContractJob
	statuses   map[string]model.StatusRecord
	results    map[string]*model.ResultRecord
	tombstones map[string]time.Time

	maxContracts int // oldest jobs evicted past this, 0 = unlimited
}

// NewContractStore builds an empty store. Lifecycle is owned by the caller;
// there is no package-level instance.
func NewContractStore(cfg *config.StoreConfig) *ContractStore {
	maxContracts := 0
	if cfg != nil && cfg.MaxContracts > 0 {
		maxContracts = cfg.MaxContracts
	}
	slog.Info("contract store initialized", "max_contracts", maxContracts)
	return &ContractStore{
		jobs:         make(map[string]*model.ContractJob),
		statuses:     make(map[string]model.StatusRecord),
		results:      make(map[string]*model.ResultRecord),
		tombstones:   make(map[string]time.Time),
		maxContracts: maxContracts,
	}
}

// CreateJob registers a freshly uploaded contract with a pending status.
func (s *ContractStore) CreateJob(job *model.ContractJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tombstones, job.ID)
	s.jobs[job.ID] = job
	s.statuses[job.ID] = model.StatusRecord{State: model.StatusPending, Progress: 0}

	s.evictIfNeeded()
}

// GetJob returns the upload record for a contract.
func (s *ContractStore) GetJob(id string) (*model.ContractJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job, nil
}

// GetStatus returns a copy of the current status record.
func (s *ContractStore) GetStatus(id string) (model.StatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[id]
	if !ok {
		return model.StatusRecord{}, ErrNotFound
	}
	return st, nil
}

// SetStatus overwrites the status record for a contract. Writes against
// deleted ids are discarded so a late-running pipeline cannot resurrect a
// contract the caller already removed.
func (s *ContractStore) SetStatus(id string, st model.StatusRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, gone := s.tombstones[id]; gone {
		slog.Debug("dropping status write for deleted contract", "contract_id", id)
		return
	}
	if _, ok := s.jobs[id]; !ok {
		return
	}
	s.statuses[id] = st
}

// GetResult returns the result record, or false until the contract has
// completed.
func (s *ContractStore) GetResult(id string) (*model.ResultRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.statuses[id].State != model.StatusCompleted {
		return nil, false
	}
	res, ok := s.results[id]
	return res, ok
}

// SetResult stores the final result and marks the contract completed in the
// same critical section, keeping the completed-implies-result invariant
// observable.
func (s *ContractStore) SetResult(id string, res *model.ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, gone := s.tombstones[id]; gone {
		slog.Debug("dropping result write for deleted contract", "contract_id", id)
		return
	}
	if _, ok := s.jobs[id]; !ok {
		return
	}
	s.results[id] = res
	s.statuses[id] = model.StatusRecord{State: model.StatusCompleted, Progress: 100}
}

// Delete removes the contract from all maps and tombstones its id.
func (s *ContractStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	delete(s.statuses, id)
	delete(s.results, id)
	s.tombstones[id] = time.Now()
	return nil
}

// List returns summaries for all contracts belonging to a tenant.
func (s *ContractStore) List(tenant string) []model.ContractSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ContractSummary
	for id, job := range s.jobs {
		if job.Tenant != tenant {
			continue
		}
		st := s.statuses[id]
		sum := model.ContractSummary{
			ID:         job.ID,
			Filename:   job.Filename,
			SizeBytes:  job.SizeBytes,
			UploadedAt: job.UploadedAt,
			State:      st.State,
			Progress:   st.Progress,
		}
		if res, ok := s.results[id]; ok && st.State == model.StatusCompleted {
			overall := res.ConfidenceScores.Overall
			sum.Score = &overall
		}
		out = append(out, sum)
	}
	return out
}

// Count returns the number of contracts in the store.
func (s *ContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// evictIfNeeded removes the oldest jobs once the store exceeds maxContracts.
// Must be called with the lock held.
func (s *ContractStore) evictIfNeeded() {
	if s.maxContracts <= 0 || len(s.jobs) <= s.maxContracts {
		return
	}

	jobs := make([]*model.ContractJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].UploadedAt.Before(jobs[j].UploadedAt)
	})

	removeCount := len(jobs) - s.maxContracts
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-evicting old contract",
			"contract_id", jobs[i].ID,
			"uploaded_at", jobs[i].UploadedAt,
		)
		delete(s.jobs, jobs[i].ID)
		delete(s.statuses, jobs[i].ID)
		delete(s.results, jobs[i].ID)
	}
}
