package main

import (
	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Apply floor pricing, health warnings and compliance notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := readEstimateFile(args[0])
			if err != nil {
				return err
			}
			uc := usecase.NewEstimateUseCase(nil, nil, a.tables, a.logger)
			validated, err := uc.Validate(cmd.Context(), e)
			if err != nil {
				return err
			}
			a.logger.Info("estimate validated", zap.String("file", args[0]), zap.Float64("total", validated.TotalEstimate))
			return writeJSON(cmd.OutOrStdout(), response.FromEstimate(validated, uc.Describe(validated)))
		},
	}
}

type adjustFlags struct {
	labor, days, materials float64
	markup                 float64
	preset, laborRate      string
	equipmentDays          int
}

func newAdjustCmd(a *app) *cobra.Command {
	f := &adjustFlags{}
	cmd := &cobra.Command{
		Use:   "adjust FILE",
		Short: "Re-price an estimate with labor, days and materials multipliers",
		Long:  "Multipliers are clamped (labor 0.5-2.0, days 0.33-3.0, materials 0.8-1.5). Floors still apply to the adjusted total.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := readEstimateFile(args[0])
			if err != nil {
				return err
			}
			in := usecase.AdjustmentInput{
				LaborMultiplier:     f.labor,
				DaysMultiplier:      f.days,
				MaterialsMultiplier: f.materials,
				LaborRate:           f.laborRate,
				EquipmentDays:       f.equipmentDays,
				MarkupPreset:        f.preset,
			}
			if cmd.Flags().Changed("markup") {
				in.MarkupPercent = &f.markup
			}

			uc := usecase.NewEstimateUseCase(nil, nil, a.tables, a.logger)
			adjusted, err := uc.Preview(cmd.Context(), e, in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), response.FromEstimate(adjusted, uc.Describe(adjusted)))
		},
	}
	cmd.Flags().Float64Var(&f.labor, "labor", 0, "Labor multiplier")
	cmd.Flags().Float64Var(&f.days, "days", 0, "Equipment days multiplier")
	cmd.Flags().Float64Var(&f.materials, "materials", 0, "Materials multiplier")
	cmd.Flags().Float64Var(&f.markup, "markup", 0, "Markup percent")
	cmd.Flags().StringVar(&f.preset, "markup-preset", "", "Markup preset (none, insurance, emergency)")
	cmd.Flags().StringVar(&f.laborRate, "labor-rate", "", "Labor rate preset (standard, emergency, after_hours)")
	cmd.Flags().IntVar(&f.equipmentDays, "equipment-days", 0, "New equipment rental duration in days")
	return cmd
}
