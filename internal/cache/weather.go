package cache

import (
	"encoding/json"
	"fmt"
)

const (
	MaxForecast = 8

	defaultConditionID = 800
	defaultCondition   = "Unknown"
)

type Conditions struct {
	Temp        int
	TempMin     int
	TempMax     int
	Humidity    int
	WindSpeed   int
	ConditionID int
	Condition   string
	Description string
}

type Forecast struct {
	Temp        int
	ConditionID int
	Hour        string
	Description string
}

type Weather struct {
	Current  Conditions
	Forecast []Forecast
}

type conditionsJSON struct {
	Temp        float64 `json:"temp"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	ConditionID int     `json:"condition_id"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
}

func (c *conditionsJSON) UnmarshalJSON(b []byte) error {
	type plain conditionsJSON
	p := plain{ConditionID: defaultConditionID, Condition: defaultCondition}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = conditionsJSON(p)
	return nil
}

type forecastJSON struct {
	Temp        float64 `json:"temp"`
	ConditionID int     `json:"condition_id"`
	Hour        string  `json:"hour_str"`
	Description string  `json:"description"`
}

func (f *forecastJSON) UnmarshalJSON(b []byte) error {
	type plain forecastJSON
	p := plain{ConditionID: defaultConditionID}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = forecastJSON(p)
	return nil
}

type weatherJSON struct {
	Current  conditionsJSON `json:"current"`
	Forecast []forecastJSON `json:"forecast"`
}

// ParseWeather decodes a WEATHER payload. Temperatures are truncated to
// whole degrees.
func ParseWeather(payload string) (Weather, error) {
	raw := weatherJSON{Current: conditionsJSON{ConditionID: defaultConditionID, Condition: defaultCondition}}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Weather{}, fmt.Errorf("%w: weather: %w", ErrMalformed, err)
	}

	w := Weather{
		Current: Conditions{
			Temp:        int(raw.Current.Temp),
			TempMin:     int(raw.Current.TempMin),
			TempMax:     int(raw.Current.TempMax),
			Humidity:    int(raw.Current.Humidity),
			WindSpeed:   int(raw.Current.WindSpeed),
			ConditionID: raw.Current.ConditionID,
			Condition:   raw.Current.Condition,
			Description: raw.Current.Description,
		},
		Forecast: make([]Forecast, 0, min(len(raw.Forecast), MaxForecast)),
	}
	for i, f := range raw.Forecast {
		if i >= MaxForecast {
			break
		}
		w.Forecast = append(w.Forecast, Forecast{
			Temp:        int(f.Temp),
			ConditionID: f.ConditionID,
			Hour:        f.Hour,
			Description: f.Description,
		})
	}
	return w, nil
}
