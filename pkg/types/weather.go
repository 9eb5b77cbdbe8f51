package types

// WeatherReport holds the current conditions returned by OpenWeatherMap.
type WeatherReport struct {
	CityName    string  `json:"city_name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ForecastEntry is one 3-hour slot of the OpenWeatherMap forecast endpoint.
type ForecastEntry struct {
	DateTime    string  `json:"dt_txt"` //"YYYY-MM-DD HH:MM:SS"
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}
