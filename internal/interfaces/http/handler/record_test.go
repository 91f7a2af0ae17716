package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/interfaces/http/dto"
	"github.com/metabooks/erp/internal/interfaces/http/middleware"
	"github.com/metabooks/erp/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type MockDepartmentService struct {
	mock.Mock
}

func (m *MockDepartmentService) Module() string   { return "hr" }
func (m *MockDepartmentService) Resource() string { return masterdata.ResourceDepartments }

func (m *MockDepartmentService) List(ctx context.Context, search string) ([]masterdata.Department, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]masterdata.Department), args.Error(1)
}

func (m *MockDepartmentService) Get(ctx context.Context, id uint) (*masterdata.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Department), args.Error(1)
}

func (m *MockDepartmentService) Create(ctx context.Context, rec *masterdata.Department) (*masterdata.Department, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Department), args.Error(1)
}

func (m *MockDepartmentService) Update(ctx context.Context, id uint, rec *masterdata.Department) (*masterdata.Department, error) {
	args := m.Called(ctx, id, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Department), args.Error(1)
}

func (m *MockDepartmentService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type recordingObserver struct {
	writes []string
}

func (o *recordingObserver) RecordWritten(resource, operation string) {
	o.writes = append(o.writes, resource+":"+operation)
}

func setupRecordRouter(svc *MockDepartmentService, obs WriteObserver) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())

	hr := router.NewDomainGroup("hr", "/hr")
	NewRecordHandler[masterdata.Department](svc, obs).Mount(hr)
	router.NewRouter(engine).Register(hr).Setup()
	return engine
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func department(id uint, code, name string) masterdata.Department {
	d := masterdata.Department{DepartmentCode: code, DepartmentName: name}
	d.ID = id
	return d
}

const departmentsPath = "/api/v1/hr/departments"

func TestRecordHandler_List(t *testing.T) {
	svc := new(MockDepartmentService)
	engine := setupRecordRouter(svc, nil)

	svc.On("List", mock.Anything, "fin").Return([]masterdata.Department{department(2, "FIN", "Finance")}, nil)

	w := serve(engine, http.MethodGet, departmentsPath+"?search=+fin+", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, "fin", resp.Meta.Search)
	assert.Len(t, resp.Data, 1)
	svc.AssertExpectations(t)
}

func TestRecordHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(svc *MockDepartmentService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "found",
			path: departmentsPath + "/1",
			setup: func(svc *MockDepartmentService) {
				d := department(1, "HR", "Human Resources")
				svc.On("Get", mock.Anything, uint(1)).Return(&d, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing",
			path: departmentsPath + "/9",
			setup: func(svc *MockDepartmentService) {
				svc.On("Get", mock.Anything, uint(9)).
					Return(nil, shared.ErrNotFound.WithMessage("Department #9 not found"))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "bad id",
			path:       departmentsPath + "/abc",
			setup:      func(*MockDepartmentService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name: "unexpected error",
			path: departmentsPath + "/3",
			setup: func(svc *MockDepartmentService) {
				svc.On("Get", mock.Anything, uint(3)).Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDepartmentService)
			tt.setup(svc)
			w := serve(setupRecordRouter(svc, nil), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				assert.NotEmpty(t, resp.Error.RequestID)
				assert.NotContains(t, resp.Error.Message, "connection reset")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRecordHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockDepartmentService)
		obs := &recordingObserver{}
		engine := setupRecordRouter(svc, obs)

		created := department(5, "OPS", "Operations")
		svc.On("Create", mock.Anything, mock.MatchedBy(func(d *masterdata.Department) bool {
			return d.DepartmentCode == "OPS" && d.DepartmentName == "Operations"
		})).Return(&created, nil)

		w := serve(engine, http.MethodPost, departmentsPath, `{"department_code":"OPS","department_name":"Operations"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(5), data["id"])
		assert.Equal(t, []string{"departments:create"}, obs.writes)
		svc.AssertExpectations(t)
	})

	t.Run("validation failure never reaches the service", func(t *testing.T) {
		svc := new(MockDepartmentService)
		engine := setupRecordRouter(svc, nil)

		w := serve(engine, http.MethodPost, departmentsPath, `{"department_name":"Operations"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "department_code", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := new(MockDepartmentService)
		obs := &recordingObserver{}
		engine := setupRecordRouter(svc, obs)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.ErrAlreadyExists.WithMessage("department_code already exists"))

		w := serve(engine, http.MethodPost, departmentsPath, `{"department_code":"OPS","department_name":"Operations"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
		assert.Empty(t, obs.writes)
	})
}

func TestRecordHandler_Update(t *testing.T) {
	svc := new(MockDepartmentService)
	obs := &recordingObserver{}
	engine := setupRecordRouter(svc, obs)

	updated := department(4, "OPS", "Operations & Logistics")
	svc.On("Update", mock.Anything, uint(4), mock.Anything).Return(&updated, nil)
	svc.On("Update", mock.Anything, uint(8), mock.Anything).Return(nil, shared.ErrNotFound)

	w := serve(engine, http.MethodPut, departmentsPath+"/4", `{"department_code":"OPS","department_name":"Operations & Logistics"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodPut, departmentsPath+"/8", `{"department_code":"OPS","department_name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{"departments:update"}, obs.writes)
	svc.AssertExpectations(t)
}

func TestRecordHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		id         uint
		err        error
		wantStatus int
		wantCode   string
	}{
		{"deleted", 1, nil, http.StatusNoContent, ""},
		{"missing", 2, shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"still referenced", 3, shared.ErrReferenceInUse.WithMessage("Department #3 is still used by purchase-requisitions"), http.StatusConflict, dto.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDepartmentService)
			svc.On("Delete", mock.Anything, tt.id).Return(tt.err)

			w := serve(setupRecordRouter(svc, nil), http.MethodDelete,
				departmentsPath+"/"+strconv.FormatUint(uint64(tt.id), 10), "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
			} else {
				assert.Empty(t, w.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}
