package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=job_usecase.go -destination=../adapter/http/handlers/mocks/job_usecase_mock.go -package=mocks

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrInvalidJobID      = errors.New("invalid job id")
	ErrInvalidJob        = errors.New("invalid job")
	ErrInvalidDamageType = errors.New("invalid damage type")
)

// IJobUseCase manages the customer property visits estimates hang off.
type IJobUseCase interface {
	CreateJob(ctx context.Context, j entities.Job) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Job, error)
	List(ctx context.Context) ([]entities.Job, error)
}

type JobUseCase struct {
	repo   interfaces.IJobRepository
	logger *zap.Logger
}

var _ IJobUseCase = (*JobUseCase)(nil)

func NewJobUseCase(repo interfaces.IJobRepository, logger *zap.Logger) *JobUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobUseCase{repo: repo, logger: logger}
}

func (u *JobUseCase) CreateJob(ctx context.Context, j entities.Job) (entities.Job, error) {
	j.CustomerName = strings.TrimSpace(j.CustomerName)
	j.PropertyAddress = strings.TrimSpace(j.PropertyAddress)
	if j.CustomerName == "" || j.PropertyAddress == "" {
		return entities.Job{}, ErrInvalidJob
	}
	j.DamageType = entities.ParseDamageType(string(j.DamageType))
	if j.DamageType == "" {
		return entities.Job{}, ErrInvalidDamageType
	}
	if j.City == "" && j.State == "" {
		j.City, j.State = "York", "PA"
	}

	now := time.Now().UTC()
	j.ID = uuid.NewString()
	j.CreatedAt, j.UpdatedAt = now, now

	created, err := u.repo.Create(ctx, j)
	if err != nil {
		u.logger.Error("job create failed", zap.String("job_id", j.ID), zap.Error(err))
		return entities.Job{}, err
	}
	u.logger.Info("job created",
		zap.String("job_id", created.ID),
		zap.String("damage_type", string(created.DamageType)))
	return created, nil
}

func (u *JobUseCase) GetByID(ctx context.Context, id string) (entities.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Job{}, ErrInvalidJobID
	}

	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}
	if j.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return j, nil
}

func (u *JobUseCase) List(ctx context.Context) ([]entities.Job, error) {
	return u.repo.List(ctx)
}
