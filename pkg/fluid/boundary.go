package fluid

// reflect is the mirroring boundary form used on transported quantities
// (velocity, density, dye, confinement force). Obstacle cells are
// zeroed and a velocity component pointing into an adjacent solid is flipped.
// The outer ring is then set by edges, and obstacle cells on the ring are
// zeroed again so that every obstacle cell holds exactly 0.
func (f *Fluid) reflect(x Field, axis Axis) {
	w := f.grid.W
	blocked := f.blocked
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] != 0 {
				x[ij] = 0
				continue
			}
			switch axis {
			case XVelocity:
				if blocked[ij-1] != 0 && x[ij] < 0 {
					x[ij] = -x[ij]
				}
				if blocked[ij+1] != 0 && x[ij] > 0 {
					x[ij] = -x[ij]
				}
			case YVelocity:
				if blocked[ij+w] != 0 && x[ij] > 0 {
					x[ij] = -x[ij]
				}
				if blocked[ij-w] != 0 && x[ij] < 0 {
					x[ij] = -x[ij]
				}
			}
		}
	})
	f.edges(x, axis)
	f.zeroBorderObstacles(x)
}

// average is the averaging boundary form used on divergence and pressure.
// Each interior obstacle cell takes the mean of its fluid neighbours: all four
// for scalars, only the two along the axis (negated) for velocity components.
// A cell with no fluid neighbour gets 0.
func (f *Fluid) average(x Field, axis Axis) {
	w := f.grid.W
	blocked := f.blocked
	f.grid.interiorRows(func(j int) {
		for i := 1; i < w-1; i++ {
			ij := j*w + i
			if blocked[ij] == 0 {
				continue
			}
			count := 0
			total := float32(0)
			switch axis {
			case XVelocity:
				for _, n := range [2]int{ij - 1, ij + 1} {
					if blocked[n] == 0 {
						count++
						total -= x[n]
					}
				}
			case YVelocity:
				for _, n := range [2]int{ij - w, ij + w} {
					if blocked[n] == 0 {
						count++
						total -= x[n]
					}
				}
			default:
				for _, n := range [4]int{ij - w, ij - 1, ij + 1, ij + w} {
					if blocked[n] == 0 {
						count++
						total += x[n]
					}
				}
			}
			if count != 0 {
				total /= float32(count)
			}
			x[ij] = total
		}
	})
	f.edges(x, axis)
}

// edges sets the outer ring from the first interior ring. The component normal
// to a wall is negated so that it cancels at the wall; corners take the mean of
// their two edge neighbours.
func (f *Fluid) edges(x Field, axis Axis) {
	w, h := f.grid.W, f.grid.H
	fx := float32(1)
	if axis == XVelocity {
		fx = -1
	}
	fy := float32(1)
	if axis == YVelocity {
		fy = -1
	}
	for j := 1; j < h-1; j++ {
		x[j*w] = fx * x[j*w+1]
		x[j*w+w-1] = fx * x[j*w+w-2]
	}
	for i := 1; i < w-1; i++ {
		x[i] = fy * x[w+i]
		x[(h-1)*w+i] = fy * x[(h-2)*w+i]
	}
	last := (h - 1) * w
	x[0] = 0.5 * (x[1] + x[w])
	x[w-1] = 0.5 * (x[w-2] + x[2*w-1])
	x[last] = 0.5 * (x[last+1] + x[last-w])
	x[last+w-1] = 0.5 * (x[last+w-2] + x[last-1])
}

func (f *Fluid) zeroBorderObstacles(x Field) {
	if !f.borderBlocked {
		return
	}
	w, h := f.grid.W, f.grid.H
	blocked := f.blocked
	for i := 0; i < w; i++ {
		if blocked[i] != 0 {
			x[i] = 0
		}
		if k := (h-1)*w + i; blocked[k] != 0 {
			x[k] = 0
		}
	}
	for j := 1; j < h-1; j++ {
		if blocked[j*w] != 0 {
			x[j*w] = 0
		}
		if k := j*w + w - 1; blocked[k] != 0 {
			x[k] = 0
		}
	}
}
