package postprocess

import "math"

// sqLengthTolerance is the threshold below which a sampled curve is
// considered degenerate.
const sqLengthTolerance = 1e-5

// curveApproximator estimates the direction a linestring leaves an
// endpoint by weighted-averaging the offsets of the vertices sampled going
// inward from that endpoint. Each offset is the endpoint minus the sampled
// vertex, so the result points from the line's interior out through the
// endpoint.
type curveApproximator struct {
	x0, y0     float64
	consumeX   float64
	consumeY   float64
	totalSqLen float64
	samples    []sample
}

type sample struct {
	dx, dy float64
	sqLen  float64
}

// newCurveApproximator starts an approximation from endpoint (x0, y0),
// willing to sample up to budgetX/budgetY of extent in each axis.
func newCurveApproximator(x0, y0, budgetX, budgetY float64) *curveApproximator {
	return &curveApproximator{x0: x0, y0: y0, consumeX: budgetX, consumeY: budgetY}
}

// consume feeds the next vertex moving inward from the endpoint. It returns
// true if the approximator wants more vertices (budget remains in both
// axes), false otherwise.
func (c *curveApproximator) consume(x, y float64) bool {
	dx := c.x0 - x
	dy := c.y0 - y
	xDiff := math.Abs(dx)
	yDiff := math.Abs(dy)

	if c.consumeX-xDiff < 0 {
		// clip along x: scale y proportionally so x lands exactly on budget.
		if xDiff != 0 {
			yDiff = (yDiff / xDiff) * c.consumeX
		}
		xDiff = c.consumeX
	}
	if c.consumeY-yDiff < 0 {
		// clip along y: scale x proportionally so y lands exactly on budget.
		if yDiff != 0 {
			xDiff = (xDiff / yDiff) * c.consumeY
		}
		yDiff = c.consumeY
	}

	c.consumeX -= xDiff
	c.consumeY -= yDiff

	signedX := xDiff
	if dx < 0 {
		signedX = -xDiff
	}
	signedY := yDiff
	if dy < 0 {
		signedY = -yDiff
	}

	sq := signedX*signedX + signedY*signedY
	c.samples = append(c.samples, sample{dx: signedX, dy: signedY, sqLen: sq})
	c.totalSqLen += sq

	return c.consumeX > 0 && c.consumeY > 0
}

// approximation returns the weighted-average direction vector, or (0, 0)
// if the sampled curve is degenerate (too short to be meaningful).
func (c *curveApproximator) approximation() (dx, dy float64) {
	if math.Abs(c.totalSqLen) < sqLengthTolerance {
		return 0, 0
	}
	scale := 1 / c.totalSqLen
	for _, s := range c.samples {
		dx += s.dx * s.sqLen * scale
		dy += s.dy * s.sqLen * scale
	}
	return dx, dy
}
