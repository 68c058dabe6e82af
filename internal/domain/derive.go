package domain

import "math"

// protonMassFactor folds the proton mass and the cm^-3 / km/s / nPa unit
// conversions into one coefficient: P[nPa] = 1.6726e-6 * n * v^2.
const protonMassFactor = 1.6726e-6

// alfvenFactor likewise folds mu_0, the proton mass, and the nT / cm^-3 /
// km/s conversions: V_A[km/s] = 21.8 * B[nT] / sqrt(n[cm^-3]).
const alfvenFactor = 21.8

// Derived holds the secondary physical quantities computed from one
// magnetometer/plasma reading pair.
type Derived struct {
	DynamicPressure float64 `json:"dynamic_pressure"` // nPa
	AlfvenSpeed     float64 `json:"alfven_speed"`     // km/s
	AlfvenMach      float64 `json:"alfven_mach"`
	ClockAngle      float64 `json:"clock_angle"`     // radians
	NewellCoupling  float64 `json:"newell_coupling"` // (km/s)^4/3 nT^2/3
}

// DynamicPressure computes solar wind ram pressure in nPa from proton
// density (cm^-3) and bulk speed (km/s).
func DynamicPressure(density, speed float64) float64 {
	return protonMassFactor * density * speed * speed
}

// AlfvenSpeed computes the Alfven speed in km/s from total field strength
// (nT) and proton density (cm^-3). Zero density means the reading was
// missing; the result follows the null-to-zero convention.
func AlfvenSpeed(bt, density float64) float64 {
	if density <= 0 {
		return 0
	}
	return alfvenFactor * bt / math.Sqrt(density)
}

// AlfvenMachNumber is bulk speed over Alfven speed, or 0 when the Alfven
// speed is unavailable.
func AlfvenMachNumber(speed, alfvenSpeed float64) float64 {
	if alfvenSpeed == 0 {
		return 0
	}
	return speed / alfvenSpeed
}

// ClockAngle computes the IMF clock angle atan2(By, Bz) in radians. Zero
// points due geomagnetic north; pi is due south, the strongest-coupling
// orientation.
func ClockAngle(by, bz float64) float64 {
	return math.Atan2(by, bz)
}

// NewellCoupling computes the Newell et al. (2007) solar wind-magnetosphere
// coupling function d(phi)/dt = v^4/3 * Bt^2/3 * sin^8/3(theta_c/2), with v
// in km/s and the transverse field Bt = sqrt(By^2+Bz^2) in nT.
func NewellCoupling(speed, by, bz float64) float64 {
	bt := math.Hypot(by, bz)
	theta := math.Atan2(by, bz)
	return math.Pow(speed, 4.0/3.0) *
		math.Pow(bt, 2.0/3.0) *
		math.Pow(math.Abs(math.Sin(theta/2)), 8.0/3.0)
}

// DeriveQuantities computes every derived quantity for one reading pair.
func DeriveQuantities(m MagReading, p PlasmaReading) Derived {
	alfven := AlfvenSpeed(m.Bt, p.Density)
	return Derived{
		DynamicPressure: DynamicPressure(p.Density, p.Speed),
		AlfvenSpeed:     alfven,
		AlfvenMach:      AlfvenMachNumber(p.Speed, alfven),
		ClockAngle:      ClockAngle(m.ByGSM, m.BzGSM),
		NewellCoupling:  NewellCoupling(p.Speed, m.ByGSM, m.BzGSM),
	}
}
