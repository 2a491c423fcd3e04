package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restoredoc/internal/adapter/http/handlers/mocks"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestJobHandler_CreateJob(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)

		r := gin.New()
		r.POST("/v1/jobs", h.CreateJob)

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewBufferString(`{"customer_name":"Ana"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown damage type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)

		r := gin.New()
		r.POST("/v1/jobs", h.CreateJob)

		uc.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(entities.Job{}, usecase.ErrInvalidDamageType)

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewBufferString(`{"customer_name":"Ana","damage_type":"hail","property_address":"1 Main St"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)

		r := gin.New()
		r.POST("/v1/jobs", h.CreateJob)

		uc.EXPECT().CreateJob(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, j entities.Job) (entities.Job, error) {
			if j.State != "PA" || j.DamageType != entities.DamageTypeMold {
				t.Fatalf("unexpected job: %+v", j)
			}
			j.ID = "job-1"
			return j, nil
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/jobs", bytes.NewBufferString(`{"customer_name":"Ana","damage_type":"mold","property_address":"1 Main St","city":"York","state":"pa"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["job_id"] != "job-1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestJobHandler_Queries(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("get not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)

		r := gin.New()
		r.GET("/v1/jobs/:id", h.GetJob)

		uc.EXPECT().GetByID(gomock.Any(), "job-9").Return(entities.Job{}, usecase.ErrJobNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)

		r := gin.New()
		r.GET("/v1/jobs", h.ListJobs)

		uc.EXPECT().List(gomock.Any()).Return([]entities.Job{{ID: "a"}, {ID: "b"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if len(body) != 2 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIJobUseCase(ctrl)
		h := NewJobHandler(uc)

		r := gin.New()
		r.GET("/v1/jobs", h.ListJobs)

		uc.EXPECT().List(gomock.Any()).Return(nil, errors.New("dynamo down"))

		req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
