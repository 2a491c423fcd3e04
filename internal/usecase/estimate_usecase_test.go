package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
	mock_interfaces "restoredoc/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func waterEstimate() entities.Estimate {
	return entities.Estimate{
		DamageType:     entities.DamageTypeWater,
		Classification: entities.Classification{Category: 1, Class: 2},
		Assessment: entities.Assessment{
			AffectedAreaSqFt: 120,
			EstimatedDays:    3,
			Equipment:        entities.EquipmentPlan{Dehumidifiers: 1, Days: 3},
		},
		LineItems: []entities.LineItem{
			{Description: "Water extraction labor", Quantity: 10, Unit: "hours", UnitPrice: 85, Total: 850},
			{Description: "Dehumidifier rental", Quantity: 3, Unit: "days", UnitPrice: 75, Total: 225},
			{Description: "Antimicrobial treatment", Quantity: 5, Unit: "gallons", UnitPrice: 30, Total: 150},
		},
		MarkupPercent: 10,
	}
}

func newEstimateUC(repo *mock_interfaces.MockIEstimateRepository, jobRepo *mock_interfaces.MockIJobRepository) *EstimateUseCase {
	return NewEstimateUseCase(repo, jobRepo, rules.YorkPA(), nil)
}

func TestEstimateUseCase_Validate(t *testing.T) {
	uc := newEstimateUC(nil, nil)

	t.Run("invalid damage type", func(t *testing.T) {
		e := waterEstimate()
		e.DamageType = "smoke"
		_, err := uc.Validate(context.Background(), e)
		if !errors.Is(err, ErrInvalidDamageType) {
			t.Fatalf("expected ErrInvalidDamageType, got %v", err)
		}
	})

	t.Run("invalid line item", func(t *testing.T) {
		e := waterEstimate()
		e.LineItems[0].Quantity = 0
		_, err := uc.Validate(context.Background(), e)
		if !errors.Is(err, ErrInvalidEstimate) || !errors.Is(err, entities.ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidEstimate, got %v", err)
		}
	})

	t.Run("unknown classification", func(t *testing.T) {
		e := waterEstimate()
		e.Classification.Category = 9
		_, err := uc.Validate(context.Background(), e)
		if !errors.Is(err, ErrInvalidClassification) {
			t.Fatalf("expected ErrInvalidClassification, got %v", err)
		}
	})

	t.Run("markup and buckets", func(t *testing.T) {
		res, err := uc.Validate(context.Background(), waterEstimate())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Subtotal != 1225 || res.MarkupAmount != 122.5 || res.TotalEstimate != 1347.5 {
			t.Fatalf("unexpected totals: subtotal=%v markup=%v total=%v", res.Subtotal, res.MarkupAmount, res.TotalEstimate)
		}
		want := []entities.Bucket{entities.BucketLabor, entities.BucketEquipment, entities.BucketMaterials}
		for i, b := range want {
			if res.LineItems[i].Bucket != b {
				t.Fatalf("item %d: expected bucket %s, got %s", i, b, res.LineItems[i].Bucket)
			}
		}
	})

	t.Run("keeps higher proposed total", func(t *testing.T) {
		e := waterEstimate()
		e.TotalEstimate = 2000
		res, err := uc.Validate(context.Background(), e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalEstimate != 2000 {
			t.Fatalf("expected proposed total to survive, got %v", res.TotalEstimate)
		}
	})

	t.Run("markup clamped to region ceiling", func(t *testing.T) {
		e := waterEstimate()
		e.MarkupPercent = 500
		res, err := uc.Validate(context.Background(), e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.MarkupPercent > 100 {
			t.Fatalf("expected markup clamped, got %v", res.MarkupPercent)
		}
	})

	t.Run("condition 3 mold floor", func(t *testing.T) {
		e := entities.Estimate{
			DamageType:     entities.DamageTypeMold,
			Classification: entities.Classification{Condition: 3, Level: 2},
			Assessment: entities.Assessment{
				AffectedAreaSqFt: 8,
				MoistureSource:   entities.MoistureSource{Type: "leak"},
			},
			LineItems: []entities.LineItem{
				{Description: "Remediation technician labor", Quantity: 4, Unit: "hours", UnitPrice: 85, Total: 340},
			},
		}
		res, err := uc.Validate(context.Background(), e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalEstimate != 2500 {
			t.Fatalf("expected floor 2500, got %v", res.TotalEstimate)
		}
		found := false
		for _, n := range res.ComplianceNotes {
			if n == rules.Condition3MinimumNote {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected minimum note, got %v", res.ComplianceNotes)
		}
	})
}

func TestEstimateUseCase_Preview(t *testing.T) {
	uc := newEstimateUC(nil, nil)

	t.Run("labor multiplier", func(t *testing.T) {
		res, err := uc.Preview(context.Background(), waterEstimate(), AdjustmentInput{LaborMultiplier: 1.5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.LineItems[0].UnitPrice != 127.5 || res.LineItems[0].Total != 1275 {
			t.Fatalf("unexpected labor row: %+v", res.LineItems[0])
		}
		if res.Subtotal != 1650 || res.TotalEstimate != 1815 {
			t.Fatalf("unexpected totals: subtotal=%v total=%v", res.Subtotal, res.TotalEstimate)
		}
		if res.Adjustment == nil || res.Adjustment.OriginalTotal != 1225 || res.Adjustment.Difference != 425 {
			t.Fatalf("unexpected summary: %+v", res.Adjustment)
		}
	})

	t.Run("equipment days", func(t *testing.T) {
		res, err := uc.Preview(context.Background(), waterEstimate(), AdjustmentInput{EquipmentDays: 6})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.LineItems[1].Quantity != 6 || res.LineItems[1].Total != 450 {
			t.Fatalf("unexpected equipment row: %+v", res.LineItems[1])
		}
		if res.Subtotal != 1450 {
			t.Fatalf("expected subtotal 1450, got %v", res.Subtotal)
		}
	})

	t.Run("repeating a rate and duration changes nothing", func(t *testing.T) {
		in := AdjustmentInput{EquipmentDays: 5, LaborRate: "emergency"}

		once, err := uc.Preview(context.Background(), waterEstimate(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if once.LineItems[0].UnitPrice != 125 || once.LineItems[0].Total != 1250 || once.LineItems[1].Quantity != 5 {
			t.Fatalf("unexpected first pass: %+v", once.LineItems)
		}
		if once.LaborRate != "emergency" || once.Assessment.Equipment.Days != 5 {
			t.Fatalf("applied rate and duration not recorded: rate=%q days=%d", once.LaborRate, once.Assessment.Equipment.Days)
		}

		twice, err := uc.Preview(context.Background(), once, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if twice.LineItems[0].UnitPrice != 125 || twice.LineItems[1].Quantity != 5 || twice.Subtotal != once.Subtotal {
			t.Fatalf("second pass compounded: %+v", twice.LineItems)
		}

		back, err := uc.Preview(context.Background(), twice, AdjustmentInput{LaborRate: "Standard"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back.LineItems[0].UnitPrice != 85 || back.LaborRate != rules.LaborRateStandard {
			t.Fatalf("expected standard labor again, got %+v rate=%q", back.LineItems[0], back.LaborRate)
		}
	})

	t.Run("equipment days without duration", func(t *testing.T) {
		e := waterEstimate()
		e.Assessment.EstimatedDays = 0
		e.Assessment.Equipment.Days = 0
		_, err := uc.Preview(context.Background(), e, AdjustmentInput{EquipmentDays: 5})
		if !errors.Is(err, ErrInvalidAdjustment) {
			t.Fatalf("expected ErrInvalidAdjustment, got %v", err)
		}
	})

	t.Run("markup preset wins over percent", func(t *testing.T) {
		pct := 50.0
		res, err := uc.Preview(context.Background(), waterEstimate(), AdjustmentInput{MarkupPreset: "emergency", MarkupPercent: &pct})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.MarkupPercent != 25 || res.MarkupAmount != 306.25 || res.TotalEstimate != 1531.25 {
			t.Fatalf("unexpected markup: %v %v %v", res.MarkupPercent, res.MarkupAmount, res.TotalEstimate)
		}
	})

	t.Run("unknown presets", func(t *testing.T) {
		_, err := uc.Preview(context.Background(), waterEstimate(), AdjustmentInput{MarkupPreset: "friends"})
		if !errors.Is(err, ErrInvalidAdjustment) {
			t.Fatalf("expected ErrInvalidAdjustment, got %v", err)
		}
		_, err = uc.Preview(context.Background(), waterEstimate(), AdjustmentInput{LaborRate: "weekend"})
		if !errors.Is(err, ErrInvalidAdjustment) {
			t.Fatalf("expected ErrInvalidAdjustment, got %v", err)
		}
	})

	t.Run("multipliers clamp", func(t *testing.T) {
		res, err := uc.Preview(context.Background(), waterEstimate(), AdjustmentInput{MaterialsMultiplier: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Adjustment.Multipliers.Materials != 1.5 || res.LineItems[2].Total != 225 {
			t.Fatalf("expected materials clamped to 1.5, got %+v", res.Adjustment.Multipliers)
		}
	})
}

func TestEstimateUseCase_SaveEstimate(t *testing.T) {
	t.Run("invalid job id", func(t *testing.T) {
		uc := newEstimateUC(nil, nil)
		_, err := uc.SaveEstimate(context.Background(), "  ", waterEstimate())
		if !errors.Is(err, ErrInvalidJobID) {
			t.Fatalf("expected ErrInvalidJobID, got %v", err)
		}
	})

	t.Run("job not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := newEstimateUC(nil, jobRepo)

		jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(entities.Job{}, nil)

		_, err := uc.SaveEstimate(context.Background(), "job-1", waterEstimate())
		if !errors.Is(err, ErrJobNotFound) {
			t.Fatalf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("job repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := newEstimateUC(nil, jobRepo)

		jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(entities.Job{}, errors.New("db"))

		_, err := uc.SaveEstimate(context.Background(), "job-1", waterEstimate())
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("first version inherits damage type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := newEstimateUC(repo, jobRepo)

		jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(entities.Job{ID: "job-1", DamageType: entities.DamageTypeWater}, nil)
		repo.EXPECT().ListByJobID(gomock.Any(), "job-1").Return(nil, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Estimate{})).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.ID == "" || e.JobID != "job-1" || e.Version != 1 || !e.IsCurrent {
					t.Fatalf("unexpected estimate: %+v", e)
				}
				if e.Status != entities.EstimateStatusDraft || e.DamageType != entities.DamageTypeWater {
					t.Fatalf("unexpected status or type: %+v", e)
				}
				if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
					t.Fatalf("expected timestamps")
				}
				return e, nil
			},
		)

		e := waterEstimate()
		e.DamageType = ""
		res, err := uc.SaveEstimate(context.Background(), " job-1 ", e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalEstimate != 1347.5 || res.Adjustment != nil {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("new version retires current one", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := newEstimateUC(repo, jobRepo)

		jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(entities.Job{ID: "job-1", DamageType: entities.DamageTypeWater}, nil)
		repo.EXPECT().ListByJobID(gomock.Any(), "job-1").Return([]entities.Estimate{
			{ID: "est-1", JobID: "job-1", Version: 1},
			{ID: "est-2", JobID: "job-1", Version: 2, IsCurrent: true},
		}, nil)
		create := repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.Version != 3 {
					t.Fatalf("expected version 3, got %d", e.Version)
				}
				return e, nil
			},
		)
		repo.EXPECT().SetCurrent(gomock.Any(), "est-2", false).Return(entities.Estimate{ID: "est-2"}, nil).After(create)

		res, err := uc.SaveEstimate(context.Background(), "job-1", waterEstimate())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Version != 3 {
			t.Fatalf("expected version 3, got %d", res.Version)
		}
	})

	t.Run("create error keeps previous current", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		jobRepo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := newEstimateUC(repo, jobRepo)

		jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(entities.Job{ID: "job-1", DamageType: entities.DamageTypeWater}, nil)
		repo.EXPECT().ListByJobID(gomock.Any(), "job-1").Return([]entities.Estimate{{ID: "est-1", Version: 1, IsCurrent: true}}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, errors.New("db"))

		_, err := uc.SaveEstimate(context.Background(), "job-1", waterEstimate())
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestEstimateUseCase_AdjustEstimate(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, nil)

		_, err := uc.AdjustEstimate(context.Background(), "est-1", AdjustmentInput{LaborMultiplier: 1.2})
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("approved is locked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		base := waterEstimate()
		base.ID, base.Status = "est-1", entities.EstimateStatusApproved
		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(base, nil)

		_, err := uc.AdjustEstimate(context.Background(), "est-1", AdjustmentInput{LaborMultiplier: 1.2})
		if !errors.Is(err, ErrEstimateLocked) {
			t.Fatalf("expected ErrEstimateLocked, got %v", err)
		}
	})

	t.Run("stores adjusted version", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		base := waterEstimate()
		base.ID, base.JobID, base.Version, base.IsCurrent = "est-1", "job-1", 1, true
		base.Status = entities.EstimateStatusSent
		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(base, nil)
		repo.EXPECT().ListByJobID(gomock.Any(), "job-1").Return([]entities.Estimate{base}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.ID == base.ID || e.Version != 2 || e.Status != entities.EstimateStatusDraft {
					t.Fatalf("unexpected new version: %+v", e)
				}
				if e.Adjustment == nil || e.Adjustment.AdjustedTotal != 1650 {
					t.Fatalf("expected adjustment summary, got %+v", e.Adjustment)
				}
				return e, nil
			},
		)
		repo.EXPECT().SetCurrent(gomock.Any(), "est-1", false).Return(entities.Estimate{ID: "est-1"}, nil)

		res, err := uc.AdjustEstimate(context.Background(), "est-1", AdjustmentInput{LaborMultiplier: 1.5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalEstimate != 1815 {
			t.Fatalf("expected 1815, got %v", res.TotalEstimate)
		}
	})
}

func TestEstimateUseCase_Queries(t *testing.T) {
	t.Run("get by id invalid", func(t *testing.T) {
		uc := newEstimateUC(nil, nil)
		_, err := uc.GetByID(context.Background(), "")
		if !errors.Is(err, ErrInvalidEstimateID) {
			t.Fatalf("expected ErrInvalidEstimateID, got %v", err)
		}
	})

	t.Run("get by id repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, errors.New("db"))

		_, err := uc.GetByID(context.Background(), "est-1")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("list invalid job id", func(t *testing.T) {
		uc := newEstimateUC(nil, nil)
		_, err := uc.ListByJobID(context.Background(), " ")
		if !errors.Is(err, ErrInvalidJobID) {
			t.Fatalf("expected ErrInvalidJobID, got %v", err)
		}
	})

	t.Run("current picks highest current version", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().ListByJobID(gomock.Any(), "job-1").Return([]entities.Estimate{
			{ID: "est-1", Version: 1, IsCurrent: true},
			{ID: "est-2", Version: 2, IsCurrent: true},
			{ID: "est-3", Version: 3},
		}, nil)

		res, err := uc.GetCurrentByJobID(context.Background(), "job-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ID != "est-2" {
			t.Fatalf("expected est-2, got %s", res.ID)
		}
	})

	t.Run("current missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().ListByJobID(gomock.Any(), "job-1").Return([]entities.Estimate{}, nil)

		_, err := uc.GetCurrentByJobID(context.Background(), "job-1")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("describe", func(t *testing.T) {
		uc := newEstimateUC(nil, nil)
		got := uc.Describe(waterEstimate())
		if !strings.HasPrefix(got, "Category 1") || !strings.Contains(got, "Class 2") {
			t.Fatalf("unexpected description %q", got)
		}
	})
}

func TestEstimateUseCase_Transitions(t *testing.T) {
	t.Run("send draft", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{ID: "est-1", IsCurrent: true, Status: entities.EstimateStatusDraft}, nil)
		repo.EXPECT().UpdateStatusByID(gomock.Any(), "est-1", entities.EstimateStatusSent).
			Return(entities.Estimate{ID: "est-1", IsCurrent: true, Status: entities.EstimateStatusSent}, nil)

		res, err := uc.Send(context.Background(), "est-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.EstimateStatusSent {
			t.Fatalf("expected sent, got %s", res.Status)
		}
	})

	t.Run("approve draft rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{ID: "est-1", IsCurrent: true, Status: entities.EstimateStatusDraft}, nil)

		_, err := uc.Approve(context.Background(), "est-1")
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}
	})

	t.Run("superseded version", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{ID: "est-1", Status: entities.EstimateStatusSent}, nil)

		_, err := uc.Reject(context.Background(), "est-1")
		if !errors.Is(err, ErrEstimateNotCurrent) {
			t.Fatalf("expected ErrEstimateNotCurrent, got %v", err)
		}
	})

	t.Run("update lost row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := newEstimateUC(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{ID: "est-1", IsCurrent: true, Status: entities.EstimateStatusSent}, nil)
		repo.EXPECT().UpdateStatusByID(gomock.Any(), "est-1", entities.EstimateStatusApproved).Return(entities.Estimate{}, nil)

		_, err := uc.Approve(context.Background(), "est-1")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})
}
