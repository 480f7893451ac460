package weather

import (
	"fmt"
	"strings"
	"time"
)

var epaLevels = map[int]string{
	1: "Good",
	2: "Moderate",
	3: "Unhealthy for Sensitive Groups",
	4: "Unhealthy",
	5: "Very Unhealthy",
	6: "Hazardous",
}

// EPALevel names a US-EPA air quality index value.
func EPALevel(index int) string {
	if level, ok := epaLevels[index]; ok {
		return level
	}
	return "Unknown"
}

// RainPeriods renders today's rain windows from the hourly forecast, e.g.
// "Rain expected from 3:00 PM to 6:00 PM." A window still open at the last
// hour is reported as "onwards".
func RainPeriods(hours []HourForecast) string {
	var periods []string
	raining := false
	var start string

	for _, h := range hours {
		at := time.Unix(h.Epoch, 0).Format("3:04 PM")
		switch {
		case h.WillRain && !raining:
			raining = true
			start = at
		case !h.WillRain && raining:
			raining = false
			periods = append(periods, fmt.Sprintf("from %s to %s", start, at))
		}
	}
	if raining {
		periods = append(periods, fmt.Sprintf("from %s onwards", start))
	}

	if len(periods) == 0 {
		return "No rain expected today."
	}
	return "Rain expected " + strings.Join(periods, ", ") + "."
}

// Suggestions derives simple day-planning advice from the report.
func Suggestions(r *Report) []string {
	var out []string

	if r.Day.WillRain || r.Day.RainChance > 40 {
		out = append(out, "Light drizzle or rain is possible — consider carrying an umbrella.")
	}

	if r.Current.EPAIndex > 0 && r.Current.EPAIndex <= 2 {
		out = append(out, "Air quality is good — a great day for outdoor activities.")
	} else if r.Current.EPAIndex > 2 {
		out = append(out, "Air quality is poor — it may be wise to limit strenuous outdoor activities.")
	}

	if r.Current.UV > 5 {
		out = append(out, "UV index is high — use sunscreen and wear protective clothing if outdoors.")
	} else if r.Current.UV > 2 {
		out = append(out, "UV index is moderate — use sunscreen if staying outdoors for extended periods.")
	}

	return out
}

// FormatReport renders the full weather report for one city.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("*Weather Update for %s*\n", r.City))
	b.WriteString(fmt.Sprintf("_%s_\n\n", r.Current.Condition))
	b.WriteString(fmt.Sprintf("Temperature: %.1f°C (feels like %.1f°C)\n", r.Current.TempC, r.Current.FeelsLikeC))
	b.WriteString(fmt.Sprintf("Humidity: %d%% | Wind: %.0f km/h %s\n", r.Current.Humidity, r.Current.WindKph, r.Current.WindDir))
	b.WriteString(fmt.Sprintf("UV Index: %.1f | Visibility: %.0f km\n\n", r.Current.UV, r.Current.VisKm))

	b.WriteString("*Rain Forecast*\n")
	b.WriteString(RainPeriods(r.Hours))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Air Quality: %d - %s\n", r.Current.EPAIndex, EPALevel(r.Current.EPAIndex)))

	if suggestions := Suggestions(r); len(suggestions) > 0 {
		b.WriteString("\n*Suggestions for the Day*\n")
		for _, s := range suggestions {
			b.WriteString("- " + s + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatHistory renders one historical day's aggregates for a city.
func FormatHistory(city string, date time.Time, d *DayStats) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("*Historical Weather for %s on %s*\n", city, date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("- Condition: %s\n", d.Condition))
	b.WriteString(fmt.Sprintf("- Max Temp: %.1f°C\n", d.MaxTempC))
	b.WriteString(fmt.Sprintf("- Min Temp: %.1f°C\n", d.MinTempC))
	b.WriteString(fmt.Sprintf("- Avg Temp: %.1f°C\n", d.AvgTempC))
	b.WriteString(fmt.Sprintf("- Total Precip: %.1f mm", d.TotalPrecipMM))

	return b.String()
}
