package maps

import (
	"context"
	"errors"
	"fmt"
)

// Chain tries each planner in order and returns the first successful route.
type Chain []Planner

func (c Chain) Plan(ctx context.Context, waypoints []string) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, ErrTooFewWaypoints
	}
	var errs []error
	for _, p := range c {
		route, err := p.Plan(ctx, waypoints)
		if err == nil {
			return route, nil
		}
		if ctx.Err() != nil {
			return Route{}, ctx.Err()
		}
		errs = append(errs, err)
	}
	return Route{}, fmt.Errorf("%w: %w", ErrNoRoute, errors.Join(errs...))
}
