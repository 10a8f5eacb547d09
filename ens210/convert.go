// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ens210

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

const (
	// Magic numbers for count to value conversions.
	temperatureDivisor float64 = 64.0
	humidityDivisor    float64 = 512.0
	zeroCelsiusKelvin  float64 = 273.15

	// Magnus approximation coefficients, saturation vapor pressure in hPa.
	magnusScale float64 = 6.112
	magnusA     float64 = 17.67
	magnusB     float64 = 243.5
	// Converts hPa·%RH/K into grams of water per cubic meter.
	absoluteHumidityScale float64 = 2.1674
)

// Measurement is a converted temperature and relative humidity reading.
//
// Values are not clamped. A reading outside the sensor's specified range is
// passed through unchanged.
type Measurement struct {
	// Temperature in degrees Celsius.
	Temperature float64
	// Humidity in percent relative humidity.
	Humidity float64
}

// TemperatureKelvin converts a raw T_VAL count to Kelvin.
func TemperatureKelvin(raw uint16) float64 {
	return float64(raw) / temperatureDivisor
}

// TemperatureCelsius converts a raw T_VAL count to degrees Celsius.
func TemperatureCelsius(raw uint16) float64 {
	return TemperatureKelvin(raw) - zeroCelsiusKelvin
}

// HumidityPercent converts a raw H_VAL count to percent relative humidity.
func HumidityPercent(raw uint16) float64 {
	return float64(raw) / humidityDivisor
}

// ToPhysical converts a validated raw measurement to physical units.
func ToPhysical(raw RawMeasurement) Measurement {
	return Measurement{
		Temperature: TemperatureCelsius(raw.Temperature),
		Humidity:    HumidityPercent(raw.Humidity),
	}
}

// AbsoluteHumidity returns the water vapor density in g/m³ for a temperature
// in °C and a relative humidity in percent, using the Magnus approximation of
// the saturation vapor pressure.
func AbsoluteHumidity(tempC, rhPercent float64) float64 {
	es := magnusScale * math.Exp((magnusA*tempC)/(tempC+magnusB))
	return (absoluteHumidityScale * es * rhPercent) / (zeroCelsiusKelvin + tempC)
}

// Kelvin returns the temperature in Kelvin.
func (m Measurement) Kelvin() float64 {
	return m.Temperature + zeroCelsiusKelvin
}

// Fahrenheit returns the temperature in degrees Fahrenheit.
func (m Measurement) Fahrenheit() float64 {
	return m.Temperature*9/5 + 32
}

// AbsoluteHumidity returns the water vapor density of the reading in g/m³.
func (m Measurement) AbsoluteHumidity() float64 {
	return AbsoluteHumidity(m.Temperature, m.Humidity)
}

// Env writes the reading into e. Pressure is not measured and is set to 0.
func (m Measurement) Env(e *physic.Env) {
	e.Temperature = physic.ZeroCelsius + physic.Temperature(math.Round(m.Temperature*float64(physic.Kelvin)))
	e.Humidity = physic.RelativeHumidity(math.Round(m.Humidity * float64(physic.PercentRH)))
	e.Pressure = 0
}
