package orbit

import "fmt"

// Integrator selects the fixed-step scheme used by TwoBody.
type Integrator int

const (
	// RK4 is classical 4th-order Runge-Kutta.
	RK4 Integrator = iota
	// SemiImplicitEuler updates velocity first, then position from the new
	// velocity. Cheaper and better energy behavior than explicit Euler.
	SemiImplicitEuler
)

func (i Integrator) String() string {
	switch i {
	case RK4:
		return "rk4"
	case SemiImplicitEuler:
		return "euler"
	default:
		return fmt.Sprintf("integrator(%d)", int(i))
	}
}

func ParseIntegrator(name string) (Integrator, error) {
	switch name {
	case "", "rk4":
		return RK4, nil
	case "euler":
		return SemiImplicitEuler, nil
	default:
		return 0, fmt.Errorf("unknown integrator: %s", name)
	}
}

// derivFunc evaluates dX/dt for a flattened state vector.
type derivFunc func(x []float64, t float64) []float64

func rk4Step(f derivFunc, x []float64, t, dt float64) []float64 {
	n := len(x)

	k1 := f(x, t)
	k2 := f(axpy(x, k1, dt/2), t+dt/2)
	k3 := f(axpy(x, k2, dt/2), t+dt/2)
	k4 := f(axpy(x, k3, dt), t+dt)

	out := make([]float64, n)
	dt6 := dt / 6
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

// axpy returns x + h*d without touching its inputs.
func axpy(x, d []float64, h float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] + h*d[i]
	}
	return out
}
