package main

import (
	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/equipment"

	"github.com/spf13/cobra"
)

func newEquipmentCmd(a *app) *cobra.Command {
	var (
		room      entities.RoomDimensions
		level     int
		perimeter float64
		days      int
	)
	cmd := &cobra.Command{
		Use:   "equipment",
		Short: "Size air scrubbers, negative air and containment for a room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("perimeter") {
				perimeter = room.Perimeter()
			}
			calc := equipment.NewCalculator(a.tables)
			plan, err := calc.PlanRoomWithPerimeter(room, perimeter, level)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), response.EquipmentPlanResponse{
				Plan:       plan,
				Days:       days,
				RentalCost: calc.Rental(plan, days),
			})
		},
	}
	cmd.Flags().Float64Var(&room.Length, "length", 0, "Room length in feet")
	cmd.Flags().Float64Var(&room.Width, "width", 0, "Room width in feet")
	cmd.Flags().Float64Var(&room.Height, "height", 0, "Room height in feet")
	cmd.Flags().Float64Var(&room.CubicFeet, "cubic-feet", 0, "Room volume, overrides length x width x height")
	cmd.Flags().IntVar(&level, "level", 3, "Mold remediation level")
	cmd.Flags().Float64Var(&perimeter, "perimeter", 0, "Containment run in feet (default: floor perimeter)")
	cmd.Flags().IntVar(&days, "days", 0, "Rental days to price")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}
