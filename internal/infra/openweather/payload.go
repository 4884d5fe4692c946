package openweather

type coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type windBlock struct {
	Speed float64  `json:"speed"`
	Deg   int      `json:"deg"`
	Gust  *float64 `json:"gust"`
}

type conditions []struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (c conditions) first() (string, string) {
	if len(c) == 0 {
		return "", ""
	}
	return c[0].Description, c[0].Icon
}

type currentPayload struct {
	Coord   coord      `json:"coord"`
	Weather conditions `json:"weather"`
	Main    mainBlock  `json:"main"`
	Wind    windBlock  `json:"wind"`
	Dt      int64      `json:"dt"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

type volume struct {
	ThreeH float64 `json:"3h"`
}

type forecastPayload struct {
	List []struct {
		Dt      int64      `json:"dt"`
		Main    mainBlock  `json:"main"`
		Weather conditions `json:"weather"`
		Clouds  struct {
			All int `json:"all"`
		} `json:"clouds"`
		Wind       windBlock `json:"wind"`
		Visibility *int      `json:"visibility"`
		Pop        float64   `json:"pop"`
		Rain       volume    `json:"rain"`
		Snow       volume    `json:"snow"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Coord    coord  `json:"coord"`
		Timezone int    `json:"timezone"`
		Sunrise  int64  `json:"sunrise"`
		Sunset   int64  `json:"sunset"`
	} `json:"city"`
}

type airPayload struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components map[string]float64 `json:"components"`
	} `json:"list"`
}
