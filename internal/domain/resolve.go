package domain

import "strings"

// Placeholder sentinels meaning "no real value". They are distinguished from
// an absent field: a record that says "Unknown location" explicitly has no
// location and must fall through to the next source.
const (
	placeholderUnknown         = "Unknown"
	placeholderUnknownLocation = "Unknown location"
)

// locationStrategy is one predicate/extractor pair in the fallback chain.
// resolve reports ok only when the strategy's guard is satisfied, not merely
// when its field exists.
type locationStrategy struct {
	name    string
	resolve func(ChartRecord) (ResolvedLocation, bool)
}

// locationStrategies is the ordered fallback chain. Order is the invariant:
// the first satisfied strategy wins.
var locationStrategies = []locationStrategy{
	{"location_object_city", fromLocationObjectWithCity},
	{"timezone_info_object", fromTimezoneInfoObject},
	{"timezone_info_name", fromTimezoneInfoName},
	{"location_name", fromLocationName},
	{"location_object", fromLocationObject},
	{"location_string", fromLocationString},
	{"timezone_identifier", fromTimezoneIdentifier},
}

// ResolveLocation normalizes a chart's location data into a fully populated
// ResolvedLocation. It never fails: a record with no usable location data
// resolves to {"Unknown", "Unknown", 0, 0}.
func ResolveLocation(chart ChartRecord) ResolvedLocation {
	loc, _ := ResolveLocationWithSource(chart)
	return loc
}

// ResolveLocationWithSource also reports which fallback strategy produced
// the result, or "default" when the chain is exhausted.
func ResolveLocationWithSource(chart ChartRecord) (ResolvedLocation, string) {
	for _, s := range locationStrategies {
		if loc, ok := s.resolve(chart); ok {
			return loc, s.name
		}
	}
	return ResolvedLocation{City: placeholderUnknown, Country: placeholderUnknown}, "default"
}

// fromLocationObjectWithCity uses the top-level location object, but only
// when it names a real city.
func fromLocationObjectWithCity(chart ChartRecord) (ResolvedLocation, bool) {
	if chart.Location == nil || chart.Location.Place == nil {
		return ResolvedLocation{}, false
	}
	p := chart.Location.Place
	if p.City == "" || p.City == placeholderUnknown {
		return ResolvedLocation{}, false
	}
	return resolvePlace(p), true
}

// fromTimezoneInfoObject uses the place object recorded at cast time under
// the timezone sub-record. Any object qualifies here; the name alias stands
// in for a missing city.
func fromTimezoneInfoObject(chart ChartRecord) (ResolvedLocation, bool) {
	tz := chart.timezoneInfo()
	if tz == nil || tz.Location == nil {
		return ResolvedLocation{}, false
	}
	return resolvePlace(tz.Location), true
}

// fromTimezoneInfoName splits the free-text location name recorded under the
// timezone sub-record, pulling coordinates from its coordinates field.
func fromTimezoneInfoName(chart ChartRecord) (ResolvedLocation, bool) {
	tz := chart.timezoneInfo()
	if tz == nil || isPlaceholderName(tz.LocationName) {
		return ResolvedLocation{}, false
	}
	loc := splitCityCountry(tz.LocationName)
	if c := chart.coordinates(); c != nil {
		loc.Lat = c.Latitude
		loc.Lon = c.Longitude
	}
	return loc, true
}

// fromLocationName splits the top-level free-text location name, reading
// coordinates from the timezone sub-record as a fallback source.
func fromLocationName(chart ChartRecord) (ResolvedLocation, bool) {
	if isPlaceholderName(chart.LocationName) {
		return ResolvedLocation{}, false
	}
	loc := splitCityCountry(chart.LocationName)
	if c := chart.coordinates(); c != nil {
		loc.Lat = c.Latitude
		loc.Lon = c.Longitude
	}
	return loc, true
}

// fromLocationObject uses the top-level location object regardless of its
// city field. This is the late catch for objects that only carry country or
// coordinates.
func fromLocationObject(chart ChartRecord) (ResolvedLocation, bool) {
	if chart.Location == nil || chart.Location.Place == nil {
		return ResolvedLocation{}, false
	}
	return resolvePlace(chart.Location.Place), true
}

// fromLocationString comma-splits a top-level free-text location. No
// coordinate source exists at this tier, so coordinates stay 0.
func fromLocationString(chart ChartRecord) (ResolvedLocation, bool) {
	if chart.Location == nil || isPlaceholderName(chart.Location.Text) {
		return ResolvedLocation{}, false
	}
	return splitCityCountry(chart.Location.Text), true
}

// fromTimezoneIdentifier derives a coarse location from a "Region/City"
// timezone identifier, e.g. "America/New_York" -> New York, America.
// Plain "UTC" carries no location and is skipped.
func fromTimezoneIdentifier(chart ChartRecord) (ResolvedLocation, bool) {
	tz := chart.Timezone
	if info := chart.timezoneInfo(); info != nil && info.Timezone != "" {
		tz = info.Timezone
	}
	if tz == "" || tz == "UTC" || !strings.Contains(tz, "/") {
		return ResolvedLocation{}, false
	}
	parts := strings.Split(tz, "/")
	return ResolvedLocation{
		City:    strings.ReplaceAll(parts[len(parts)-1], "_", " "),
		Country: parts[0],
	}, true
}

// timezoneInfo returns the nested timezone sub-record, or nil.
func (c ChartRecord) timezoneInfo() *TimezoneInfo {
	if c.ChartData == nil {
		return nil
	}
	return c.ChartData.TimezoneInfo
}

// coordinates returns the nested coordinates recorded at cast time, or nil.
func (c ChartRecord) coordinates() *Coordinates {
	if tz := c.timezoneInfo(); tz != nil {
		return tz.Coordinates
	}
	return nil
}

// resolvePlace reads a place object, preferring full field names over the
// abbreviated ones and defaulting to "Unknown"/0.
func resolvePlace(p *Place) ResolvedLocation {
	city := p.City
	if city == "" {
		city = p.Name
	}
	if city == "" {
		city = placeholderUnknown
	}
	country := p.Country
	if country == "" {
		country = placeholderUnknown
	}
	return ResolvedLocation{
		City:    city,
		Country: country,
		Lat:     floatField(p.Latitude, p.Lat),
		Lon:     floatField(p.Longitude, p.Lon),
	}
}

// floatField prefers the full field name, falls back to the abbreviation,
// then to 0.
func floatField(full, abbrev *float64) float64 {
	if full != nil {
		return *full
	}
	if abbrev != nil {
		return *abbrev
	}
	return 0
}

// splitCityCountry splits "City, Country" on commas, trimming each segment.
// Without a comma the whole string is the city; the country defaults to
// "Unknown".
func splitCityCountry(s string) ResolvedLocation {
	parts := strings.Split(s, ",")
	loc := ResolvedLocation{City: strings.TrimSpace(parts[0]), Country: placeholderUnknown}
	if loc.City == "" {
		loc.City = placeholderUnknown
	}
	if len(parts) > 1 {
		if c := strings.TrimSpace(parts[1]); c != "" {
			loc.Country = c
		}
	}
	return loc
}

// isPlaceholderName reports whether a free-text location name is absent or a
// placeholder sentinel.
func isPlaceholderName(s string) bool {
	return s == "" || s == placeholderUnknown || s == placeholderUnknownLocation
}
