package model

import "strings"

// Sector is a GICS sector.
type Sector string

const (
	SectorIndustrials           Sector = "Industrials"
	SectorHealthCare            Sector = "Health Care"
	SectorInformationTechnology Sector = "Information Technology"
	SectorUtilities             Sector = "Utilities"
	SectorFinancials            Sector = "Financials"
	SectorMaterials             Sector = "Materials"
	SectorConsumerDiscretionary Sector = "Consumer Discretionary"
	SectorRealEstate            Sector = "Real Estate"
	SectorCommunicationServices Sector = "Communication Services"
	SectorConsumerStaples       Sector = "Consumer Staples"
	SectorEnergy                Sector = "Energy"
)

// MarketIndexSymbol is the broad-market benchmark.
const MarketIndexSymbol = "^GSPC"

// SectorProxies pins each sector to one SPDR sector ETF.
var SectorProxies = map[Sector]string{
	SectorIndustrials:           "XLI",
	SectorHealthCare:            "XLV",
	SectorInformationTechnology: "XLK",
	SectorUtilities:             "XLU",
	SectorFinancials:            "XLF",
	SectorMaterials:             "XLB",
	SectorConsumerDiscretionary: "XLY",
	SectorRealEstate:            "XLRE",
	SectorCommunicationServices: "XLC",
	SectorConsumerStaples:       "XLP",
	SectorEnergy:                "XLE",
}

// ParseSector matches a sector name case-insensitively against the known sectors.
func ParseSector(name string) (Sector, bool) {
	name = strings.TrimSpace(name)
	for s := range SectorProxies {
		if strings.EqualFold(name, string(s)) {
			return s, true
		}
	}
	return "", false
}

// ProxySymbol returns the sector benchmark symbol.
func (s Sector) ProxySymbol() (string, bool) {
	sym, ok := SectorProxies[s]
	return sym, ok
}
