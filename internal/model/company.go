package model

// Company is one row of the index constituents listing.
type Company struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Sector       string `json:"sector"`
	SubIndustry  string `json:"subIndustry,omitempty"`
	Headquarters string `json:"headquarters,omitempty"`
	DateAdded    string `json:"dateAdded,omitempty"`
	CIK          string `json:"cik,omitempty"`
	Founded      string `json:"founded,omitempty"`
}

// Fundamentals is a point-in-time snapshot of company metrics.
// A missing DividendYield means the company has no dividend history.
type Fundamentals struct {
	Symbol            string `json:"symbol"`
	LastClose         Float  `json:"lastClose"`
	Week52High        Float  `json:"week52High"`
	Week52Low         Float  `json:"week52Low"`
	MarketCapBillions Float  `json:"marketCapBillions"`
	DividendYield     Float  `json:"dividendYield"`
	PERatioTTM        Float  `json:"peRatioTTM"`
	EPSTTM            Float  `json:"epsTTM"`
	Beta              Float  `json:"beta"`
	Description       string `json:"description,omitempty"`
}
