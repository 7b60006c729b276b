package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sparseecs/internal/ecs"
	"sparseecs/internal/ecs/query"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type dead struct{}

func newDemoCmd() *cobra.Command {
	var entityCount int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Spawn sample entities and print what a View, an owning group and an Observer each see",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, entityCount)
		},
	}
	cmd.Flags().IntVar(&entityCount, "entities", 8, "number of sample entities to spawn")
	return cmd
}

func runDemo(cmd *cobra.Command, n int) error {
	r := ecs.New(ecs.WithInitialEntityCapacity(n))
	out := cmd.OutOrStdout()

	group, err := ecs.NewOwningGroup2[position, velocity](r)
	if err != nil {
		return err
	}

	observer := ecs.NewObserver(r)
	if _, err := ecs.MatchOnUpdate[position](observer, nil, nil); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		e := r.Create()
		ecs.Emplace(r, e, position{X: float64(i), Y: 0})
		if i%3 != 0 {
			ecs.Emplace(r, e, velocity{DX: 1, DY: 0})
		}
		if i%5 == 0 {
			ecs.Emplace(r, e, dead{})
		}
	}

	fmt.Fprintf(out, "registry holds %d live entities\n", r.EntityCount())
	fmt.Fprintf(out, "owning group (position, velocity) packed %d entities\n", group.Len())

	view := ecs.NewView2[position, velocity](r, ecs.ComponentIDOf[dead]())
	matched := 0
	view.Each(func(e ecs.Entity, p *position, v *velocity) {
		matched++
		ecs.Patch(r, e, func(p *position) { p.X += v.DX })
	})
	fmt.Fprintf(out, "view (position, velocity exclude dead) touched %d entities this tick\n", matched)

	flagged := 0
	observer.EachMutate(func(e ecs.Entity, mask query.BitSet64) { flagged++ })
	fmt.Fprintf(out, "observer reports %d position updates since last drain\n", flagged)

	return nil
}
