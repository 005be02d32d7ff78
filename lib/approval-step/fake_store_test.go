package approvalstephandler

import (
	"time"

	"github.com/google/uuid"

	"miniflow-backend/models"
	approvalapimodels "miniflow-backend/models/api/approval"
	dbmodels "miniflow-backend/models/db"
)

type fakeRequestStore struct {
	recs map[string]*dbmodels.ApprovalRequest
}

func newFakeRequestStore(recs ...*dbmodels.ApprovalRequest) *fakeRequestStore {
	store := &fakeRequestStore{recs: map[string]*dbmodels.ApprovalRequest{}}
	for _, rec := range recs {
		store.recs[rec.ID] = rec
	}
	return store
}

func (f *fakeRequestStore) Create(rec dbmodels.ApprovalRequest) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeRequestStore) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	return f.recs[id], nil
}

func (f *fakeRequestStore) GetByIDForUpdate(id string) (*dbmodels.ApprovalRequest, error) {
	return f.recs[id], nil
}

func (f *fakeRequestStore) Update(id string, updMap map[string]interface{}) error {
	rec, ok := f.recs[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.RequestStatus)
		case "current_step":
			rec.CurrentStep = value.(int)
		case "total_steps":
			rec.TotalSteps = value.(int)
		case "title":
			rec.Title = value.(string)
		case "content":
			if content, ok := value.(map[string]interface{}); ok {
				rec.Content = content
			}
		case "urgency":
			rec.Urgency = value.(models.Urgency)
		case "submitted_at":
			at := value.(time.Time)
			rec.SubmittedAt = &at
		case "completed_at":
			at := value.(time.Time)
			rec.CompletedAt = &at
		}
	}
	return nil
}

func (f *fakeRequestStore) Delete(id string) error {
	delete(f.recs, id)
	return nil
}

func (f *fakeRequestStore) List(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) ([]dbmodels.ApprovalRequest, error) {
	list := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeRequestStore) ListCount(userID string, isAdmin bool, filter approvalapimodels.RequestFilter) (int64, error) {
	return int64(len(f.recs)), nil
}

type fakeStepStore struct {
	steps []*dbmodels.ApprovalStep
}

func newFakeStepStore(steps ...*dbmodels.ApprovalStep) *fakeStepStore {
	return &fakeStepStore{steps: steps}
}

func (f *fakeStepStore) CreateBulk(recs []dbmodels.ApprovalStep) error {
	for k := range recs {
		rec := recs[k]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		f.steps = append(f.steps, &rec)
	}
	return nil
}

func (f *fakeStepStore) GetByID(id string) (*dbmodels.ApprovalStep, error) {
	for _, step := range f.steps {
		if step.ID == id {
			return step, nil
		}
	}
	return nil, nil
}

func (f *fakeStepStore) GetByIDForUpdate(id string) (*dbmodels.ApprovalStep, error) {
	return f.GetByID(id)
}

func (f *fakeStepStore) GetByOrder(requestID string, order int) (*dbmodels.ApprovalStep, error) {
	for _, step := range f.steps {
		if step.RequestID == requestID && step.StepOrder == order {
			return step, nil
		}
	}
	return nil, nil
}

func (f *fakeStepStore) Update(id string, updMap map[string]interface{}) error {
	step, _ := f.GetByID(id)
	if step == nil {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			step.Status = value.(models.StepStatus)
		case "comment":
			step.Comment = value.(string)
		case "processed_at":
			at := value.(time.Time)
			step.ProcessedAt = &at
		}
	}
	return nil
}

func (f *fakeStepStore) DeleteByRequest(requestID string) error {
	kept := []*dbmodels.ApprovalStep{}
	for _, step := range f.steps {
		if step.RequestID != requestID {
			kept = append(kept, step)
		}
	}
	f.steps = kept
	return nil
}

func (f *fakeStepStore) CountByRequest(requestID string) (int64, error) {
	var count int64
	for _, step := range f.steps {
		if step.RequestID == requestID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStepStore) SkipAfter(requestID string, afterOrder int) (int64, error) {
	var skipped int64
	for _, step := range f.steps {
		if step.RequestID == requestID && step.StepOrder > afterOrder && step.Status == models.StepStatusWaiting {
			step.Status = models.StepStatusSkipped
			skipped++
		}
	}
	return skipped, nil
}

func (f *fakeStepStore) SkipActive(requestID string) (int64, error) {
	var skipped int64
	for _, step := range f.steps {
		if step.RequestID != requestID {
			continue
		}
		if step.Status == models.StepStatusWaiting || step.Status == models.StepStatusPending {
			step.Status = models.StepStatusSkipped
			skipped++
		}
	}
	return skipped, nil
}

func (f *fakeStepStore) ListByRequest(requestID string) ([]dbmodels.ApprovalStep, error) {
	list := []dbmodels.ApprovalStep{}
	for _, step := range f.steps {
		if step.RequestID == requestID {
			list = append(list, *step)
		}
	}
	return list, nil
}

func (f *fakeStepStore) ListByApprover(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) ([]dbmodels.ApprovalStep, error) {
	list := []dbmodels.ApprovalStep{}
	for _, step := range f.steps {
		if step.ApproverID == approverID && step.Status == models.StepStatusPending {
			list = append(list, *step)
		}
	}
	return list, nil
}

func (f *fakeStepStore) ListByApproverCount(approverID string, isAdmin bool, filter approvalapimodels.StepFilter) (int64, error) {
	list, _ := f.ListByApprover(approverID, isAdmin, filter)
	return int64(len(list)), nil
}
