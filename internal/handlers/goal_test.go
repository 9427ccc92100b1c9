package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type stubGoalService struct {
	goals          []dto.GoalView
	createResult   *models.Goal
	progressResult *dto.GoalProgressResult
	progressErr    error
	updateResult   *models.Goal
	deleteErr      error
	stats          *dto.GoalStats

	lastUID              string
	lastIncludeCompleted bool
	lastCreateReq        dto.CreateGoalRequest
	lastGoalID           string
	lastAmount           float64
	lastUpdateReq        dto.UpdateGoalRequest
	progressCalled       bool
}

func (s *stubGoalService) ListGoals(_ context.Context, uid string, includeCompleted bool) ([]dto.GoalView, error) {
	s.lastUID = uid
	s.lastIncludeCompleted = includeCompleted
	return s.goals, nil
}

func (s *stubGoalService) CreateGoal(_ context.Context, uid string, req dto.CreateGoalRequest) (*models.Goal, error) {
	s.lastUID = uid
	s.lastCreateReq = req
	return s.createResult, nil
}

func (s *stubGoalService) UpdateProgress(_ context.Context, uid, goalID string, amount float64) (*dto.GoalProgressResult, error) {
	s.progressCalled = true
	s.lastUID = uid
	s.lastGoalID = goalID
	s.lastAmount = amount
	return s.progressResult, s.progressErr
}

func (s *stubGoalService) UpdateGoal(_ context.Context, uid, goalID string, req dto.UpdateGoalRequest) (*models.Goal, error) {
	s.lastUID = uid
	s.lastGoalID = goalID
	s.lastUpdateReq = req
	return s.updateResult, nil
}

func (s *stubGoalService) DeleteGoal(_ context.Context, uid, goalID string) error {
	s.lastUID = uid
	s.lastGoalID = goalID
	return s.deleteErr
}

func (s *stubGoalService) GetGoalStats(_ context.Context, uid string) (*dto.GoalStats, error) {
	s.lastUID = uid
	return s.stats, nil
}

func newGoalHandlersForTest(svc *stubGoalService) (*goalHandlers, *stubResponseHandler) {
	resp := &stubResponseHandler{}
	return NewGoalHandlers(&Deps{ResponseHandler: resp, GoalSvc: svc}), resp
}

func TestListGoals_IncludeCompleted(t *testing.T) {
	svc := &stubGoalService{goals: []dto.GoalView{}}
	h, resp := newGoalHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodGet, "/goals?includeCompleted=1", nil)
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.ListGoals(rr, req)

	if !svc.lastIncludeCompleted || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("unexpected: include=%v status=%d", svc.lastIncludeCompleted, resp.writeSuccessStatus)
	}
}

func TestCreateGoal_DecodesDeadline(t *testing.T) {
	svc := &stubGoalService{createResult: &models.Goal{GoalID: "g1"}}
	h, resp := newGoalHandlersForTest(svc)

	body := `{"title":"Car","targetAmount":5000,"category":"Savings","priority":"high","deadline":"2030-01-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/goals", strings.NewReader(body))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.CreateGoal(rr, req)

	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.writeSuccessStatus)
	}
	got := svc.lastCreateReq
	if got.Title != "Car" || got.Priority != models.PriorityHigh || got.Deadline == nil || got.Deadline.Year() != 2030 {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestUpdateProgress_OK(t *testing.T) {
	svc := &stubGoalService{progressResult: &dto.GoalProgressResult{IsCompleted: true, Progress: 100}}
	h, resp := newGoalHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPost, "/goals/g1/progress", strings.NewReader(`{"amount":20}`))
	req = withChiParam(withUID(req, "uid1"), "goalId", "g1")
	rr := httptest.NewRecorder()
	h.UpdateProgress(rr, req)

	if svc.lastGoalID != "g1" || svc.lastAmount != 20 {
		t.Fatalf("unexpected args: id=%q amount=%v", svc.lastGoalID, svc.lastAmount)
	}
	result, ok := resp.writeSuccessData.(*dto.GoalProgressResult)
	if !ok || !result.IsCompleted {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestUpdateProgress_CompletedGoal(t *testing.T) {
	svc := &stubGoalService{progressErr: errs.NewInvalidStateError("Cannot update progress on completed goal")}
	h, resp := newGoalHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPost, "/goals/g1/progress", strings.NewReader(`{"amount":5}`))
	req = withChiParam(withUID(req, "uid1"), "goalId", "g1")
	rr := httptest.NewRecorder()
	h.UpdateProgress(rr, req)

	if !resp.handleErrorCalled || resp.handleError != svc.progressErr {
		t.Fatalf("expected service error to be handled, got %v", resp.handleError)
	}
}

func TestUpdateProgress_EmptyBody(t *testing.T) {
	svc := &stubGoalService{}
	h, resp := newGoalHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPost, "/goals/g1/progress", strings.NewReader(""))
	req = withChiParam(withUID(req, "uid1"), "goalId", "g1")
	rr := httptest.NewRecorder()
	h.UpdateProgress(rr, req)

	if svc.progressCalled {
		t.Fatal("service should not be called without a body")
	}
	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
}

func TestUpdateGoal_ClearDeadline(t *testing.T) {
	svc := &stubGoalService{updateResult: &models.Goal{GoalID: "g1"}}
	h, _ := newGoalHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPatch, "/goals/g1", strings.NewReader(`{"clearDeadline":true,"title":"New"}`))
	req = withChiParam(withUID(req, "uid1"), "goalId", "g1")
	rr := httptest.NewRecorder()
	h.UpdateGoal(rr, req)

	if !svc.lastUpdateReq.ClearDeadline || svc.lastUpdateReq.Title == nil || *svc.lastUpdateReq.Title != "New" {
		t.Fatalf("unexpected patch: %+v", svc.lastUpdateReq)
	}
}

func TestGetGoalStats_Anonymous(t *testing.T) {
	svc := &stubGoalService{}
	h, resp := newGoalHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodGet, "/goals/stats", nil)
	rr := httptest.NewRecorder()
	h.GetGoalStats(rr, req)

	if svc.lastUID != "" {
		t.Fatalf("expected anonymous uid, got %q", svc.lastUID)
	}
	if stats, ok := resp.writeSuccessData.(*dto.GoalStats); !ok || stats != nil {
		t.Fatalf("expected nil stats, got %#v", resp.writeSuccessData)
	}
}
