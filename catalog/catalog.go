// Package catalog holds the fixed set of FRED series the exporter
// fetches. Entries are ordered; the batch walks them top to bottom.
package catalog

// Entry maps a human-readable display name to a FRED series identifier.
type Entry struct {
	Name     string
	SeriesID string
}

// Default is the compiled-in series catalog.
var Default = []Entry{
	// Inflation measures
	{"PCE Price Index", "PCEPI"},
	{"Core PCE Price Index", "PCEPILFE"},
	{"CPI All Urban Consumers", "CPIAUCSL"},
	{"Core CPI All Urban Consumers", "CPILFESL"},
	{"PPI Final Demand Goods", "PPIFGS"},
	{"Employment Cost Index Total Compensation Private Industry", "CIU2010000000000I"},
	{"Average Hourly Earnings Total Private", "CEU0500000003"},
	{"Unit Labor Costs Nonfarm Business Sector", "ULCNFB"},
	{"Michigan Consumer Sentiment Index", "MICH"},
	{"5-Year Breakeven Inflation Rate", "T5YIE"},
	{"10-Year Breakeven Inflation Rate", "T10YIE"},

	// Labor market
	{"Unemployment Rate U3", "UNRATE"},
	{"Unemployment Rate U6", "U6RATE"},
	{"Nonfarm Payrolls", "PAYEMS"},
	{"Labor Force Participation Rate", "CIVPART"},
	{"JOLTS Job Openings", "JTSJOL"},
	{"JOLTS Quits Rate", "JTSQUR"},
	{"Initial Jobless Claims Seasonally Adjusted", "ICNSA"},

	// Real activity and growth
	{"Real Gross Domestic Product", "GDPC1"},
	{"Industrial Production Index", "INDPRO"},
	{"Retail Sales Total Excluding Food Services", "RSXFS"},
	{"Housing Starts Total New Privately Owned", "HOUST"},
	{"Existing Home Sales Total", "EXHOSLUSM495S"},
	{"Case-Shiller US National Home Price Index", "CSUSHPINSA"},
	{"Real Private Nonresidential Fixed Investment", "PNFI"},
	{"New Orders for Durable Goods", "NEWORDER"},
	{"Capacity Utilization Manufacturing", "CUMFNS"},

	// Financial markets
	{"Effective Federal Funds Rate", "DFF"},
	{"3-Month Treasury Constant Maturity Rate", "DGS3MO"},
	{"10-Year Treasury Constant Maturity Rate", "DGS10"},
	{"ICE BofA US High Yield Master II Option Adjusted Spread", "BAMLH0A0HYM2"},
	{"30-Year Fixed Rate Mortgage Average", "MORTGAGE30US"},
	{"S&P 500 Index", "SP500"},
	{"Trade Weighted US Dollar Index Broad Goods and Services", "DTWEXBGS"},
	{"M2 Money Stock", "M2SL"},

	// Expectations and sentiment
	{"Consumer Confidence Index", "CSCICP03USM665S"},

	// Global conditions
	{"Crude Oil Prices West Texas Intermediate", "DCOILWTICO"},
	{"All Commodities Price Index IMF", "PALLFNFINDEXM"},

	// Fiscal context
	{"Federal Surplus or Deficit", "FYFSD"},
	{"Federal Debt Total Public Debt", "GFDEBTN"},
	{"Federal Funds Effective Rate", "FEDFUNDS"},
}
