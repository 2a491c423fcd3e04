package handlers

import (
	"errors"
	"net/http"

	request "restoredoc/internal/adapter/http/dto/request"
	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/usecase"
	"restoredoc/pkg"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	usecase usecase.IJobUseCase
}

func NewJobHandler(uc usecase.IJobUseCase) *JobHandler {
	return &JobHandler{usecase: uc}
}

// CreateJob godoc
// @Summary      Open a job for a customer property
// @Description  City and state default to York, PA when both are omitted.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      request.JobCreateRequest  true  "Job"
// @Success      201  {object}  response.JobResponse
// @Failure      400  {object}  pkg.HTTPError
// @Router       /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var payload request.JobCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_JOB_INPUT", "Invalid job payload", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	created, err := h.usecase.CreateJob(c.Request.Context(), payload.ToEntity())
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromJob(created))
}

// ListJobs godoc
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Success      200  {array}  response.JobResponse
// @Router       /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	out := make([]response.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, response.FromJob(j))
	}
	c.JSON(http.StatusOK, out)
}

// GetJob godoc
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.JobResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	j, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapJobError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromJob(j))
}

func mapJobError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidJobID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidJob):
		return pkg.NewDomainErrorSimple("INVALID_JOB_INPUT", "Customer name and property address are required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidDamageType):
		return pkg.NewDomainErrorSimple("INVALID_DAMAGE_TYPE", "Damage type must be water, fire or mold", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrJobNotFound):
		return pkg.NewDomainErrorSimple("JOB_NOT_FOUND", "Job not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
