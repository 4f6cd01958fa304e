package provider

// Wire schemas for the vehicle-data provider. Every upstream payload is
// decoded into an explicit struct at the boundary; unknown fields are
// dropped and missing optional sections stay nil rather than silently
// defaulting.

// Money is a monetary amount as the provider reports it. The unit is opaque
// to this service; no currency conversion happens here.
type Money struct {
	AmountGBP int64 `json:"amountGBP"`
}

// Valuations carries the provider's value figures for one vehicle. Nil
// members mean the provider did not return that figure.
type Valuations struct {
	Retail       *Money `json:"retail,omitempty"`
	Trade        *Money `json:"trade,omitempty"`
	PartExchange *Money `json:"partExchange,omitempty"`
	Private      *Money `json:"private,omitempty"`
}

// History is the provider's vehicle history summary.
type History struct {
	Stolen         bool `json:"stolen"`
	Scrapped       bool `json:"scrapped"`
	Imported       bool `json:"imported"`
	Exported       bool `json:"exported"`
	PreviousOwners int  `json:"previousOwners"`
	KeeperChanges  int  `json:"keeperChanges"`
}

// Link is a hypermedia follow-up reference.
type Link struct {
	Href string `json:"href"`
}

// VehicleAttributes enriches the caller-supplied identity with provider data.
type VehicleAttributes struct {
	Registration          string `json:"registration,omitempty"`
	DerivativeID          string `json:"derivativeId,omitempty"`
	Make                  string `json:"make,omitempty"`
	Model                 string `json:"model,omitempty"`
	Derivative            string `json:"derivative,omitempty"`
	FirstRegistrationDate string `json:"firstRegistrationDate,omitempty"`
	OdometerReadingMiles  int    `json:"odometerReadingMiles,omitempty"`
}

// VehicleResponse is the base vehicle+valuation lookup payload.
type VehicleResponse struct {
	Vehicle    VehicleAttributes `json:"vehicle"`
	Valuations *Valuations       `json:"valuations,omitempty"`
	History    *History          `json:"history,omitempty"`
	Links      struct {
		Competitors *Link `json:"competitors,omitempty"`
	} `json:"links"`
}

// TrendedPoint is one sample of the provider's valuation time series.
type TrendedPoint struct {
	Date                 string `json:"date"`
	Retail               Money  `json:"retail"`
	Trade                Money  `json:"trade"`
	PartExchange         Money  `json:"partExchange"`
	OdometerReadingMiles *int   `json:"odometerReadingMiles,omitempty"`
}

// TrendedValuationsResponse is the trended-valuations payload.
type TrendedValuationsResponse struct {
	Valuations []TrendedPoint `json:"valuations"`
}

// MetricsResponse carries location-adjusted market metrics.
type MetricsResponse struct {
	RetailRating    *float64 `json:"retailRating,omitempty"`
	DaysToSell      *float64 `json:"daysToSell,omitempty"`
	DemandIndex     *float64 `json:"demandIndex,omitempty"`
	SupplyIndex     *float64 `json:"supplyIndex,omitempty"`
	LocationAdjust  *float64 `json:"locationAdjustment,omitempty"`
	NationalAverage *Money   `json:"nationalAverage,omitempty"`
}

// Competitor is one comparable listing near the advertiser.
type Competitor struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Derivative    string `json:"derivative,omitempty"`
	Mileage       int    `json:"mileage"`
	Price         Money  `json:"price"`
	DistanceMiles *int   `json:"distanceMiles,omitempty"`
}

// CompetitorsResponse is the competitor follow-up payload.
type CompetitorsResponse struct {
	Competitors  []Competitor `json:"competitors"`
	TotalResults int          `json:"totalResults"`
}

// VehicleQuery parameterizes the base vehicle lookup.
type VehicleQuery struct {
	Registration         string
	OdometerReadingMiles int
	IncludeCheck         bool
	FullVehicleCheck     bool
}

// TrendedQuery parameterizes the trended-valuations lookup.
type TrendedQuery struct {
	DerivativeID          string
	FirstRegistrationDate string
	OdometerReadingMiles  int
}

// MetricsVehicle is the body of the vehicle-metrics call.
type MetricsVehicle struct {
	DerivativeID          string `json:"derivativeId"`
	FirstRegistrationDate string `json:"firstRegistrationDate"`
	OdometerReadingMiles  int    `json:"odometerReadingMiles"`
}
