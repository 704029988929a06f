package onboarding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrdesk/internal/employee"
	"go-hrdesk/internal/onboarding"
	onboardingerrors "go-hrdesk/internal/onboarding/errors"
	"go-hrdesk/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeOnboardingService struct {
	initiateFn      func(ctx context.Context, actorID string, req onboarding.InviteRequest) (onboarding.OnboardingResponse, error)
	submitDetailsFn func(ctx context.Context, employeeID string, req onboarding.SubmitDetailsRequest) (onboarding.OnboardingResponse, error)
	reviewFn        func(ctx context.Context, employeeID, reviewerID string, req onboarding.ReviewRequest) (onboarding.OnboardingResponse, error)
	getPendingFn    func(ctx context.Context) ([]employee.EmployeeResponse, error)
	getRecordFn     func(ctx context.Context, employeeID string) (onboarding.RecordResponse, error)
}

func (f *fakeOnboardingService) Initiate(ctx context.Context, actorID string, req onboarding.InviteRequest) (onboarding.OnboardingResponse, error) {
	return f.initiateFn(ctx, actorID, req)
}
func (f *fakeOnboardingService) SubmitDetails(ctx context.Context, employeeID string, req onboarding.SubmitDetailsRequest) (onboarding.OnboardingResponse, error) {
	return f.submitDetailsFn(ctx, employeeID, req)
}
func (f *fakeOnboardingService) Review(ctx context.Context, employeeID, reviewerID string, req onboarding.ReviewRequest) (onboarding.OnboardingResponse, error) {
	return f.reviewFn(ctx, employeeID, reviewerID, req)
}
func (f *fakeOnboardingService) GetPending(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.getPendingFn(ctx)
}
func (f *fakeOnboardingService) GetRecord(ctx context.Context, employeeID string) (onboarding.RecordResponse, error) {
	return f.getRecordFn(ctx, employeeID)
}

func TestOnboardingHandler_Invite(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeOnboardingService{
			initiateFn: func(ctx context.Context, aid string, req onboarding.InviteRequest) (onboarding.OnboardingResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "jess@corp.test", req.OfficialEmail)
				return onboarding.OnboardingResponse{
					EmployeeID:       uuid.New().String(),
					FullName:         req.FullName,
					OfficialEmail:    req.OfficialEmail,
					OnboardingStatus: employee.OnboardingPending,
					AuditStatus:      onboarding.AuditComplete,
				}, nil
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Jess Doe","personal_email":"jess@home.test","official_email":"jess@corp.test"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/invite", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Invite(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got onboarding.OnboardingResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, employee.OnboardingPending, got.OnboardingStatus)
		assert.Equal(t, onboarding.AuditComplete, got.AuditStatus)
	})

	t.Run("negative missing official email", func(t *testing.T) {
		h := onboarding.NewHandler(&fakeOnboardingService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Jess Doe","personal_email":"jess@home.test"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/invite", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Invite(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
	})

	t.Run("negative duplicate email conflict", func(t *testing.T) {
		svc := &fakeOnboardingService{
			initiateFn: func(ctx context.Context, aid string, req onboarding.InviteRequest) (onboarding.OnboardingResponse, error) {
				return onboarding.OnboardingResponse{}, onboardingerrors.ErrDuplicateOfficialEmail
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Jess Doe","personal_email":"jess@home.test","official_email":"jess@corp.test"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/invite", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Invite(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeConflict, env.Error.Code)
	})
}

func TestOnboardingHandler_Review(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		reviewerID := uuid.New().String()

		svc := &fakeOnboardingService{
			reviewFn: func(ctx context.Context, eid, rid string, req onboarding.ReviewRequest) (onboarding.OnboardingResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, reviewerID, rid)
				return onboarding.OnboardingResponse{
					EmployeeID:       eid,
					EmployeeCode:     "EMP00042",
					OnboardingStatus: employee.OnboardingApproved,
					AuditStatus:      onboarding.AuditComplete,
				}, nil
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/"+employeeID+"/review", strings.NewReader(`{"decision":"approve"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: employeeID}}
		c.Set("user_id", reviewerID)

		h.Review(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got onboarding.OnboardingResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "EMP00042", got.EmployeeCode)
	})

	t.Run("negative bad decision value", func(t *testing.T) {
		h := onboarding.NewHandler(&fakeOnboardingService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/x/review", strings.NewReader(`{"decision":"maybe"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Review(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
	})
}
