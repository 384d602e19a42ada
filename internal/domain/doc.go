// Package domain models Canadian Ice Service (CIS) Great Lakes ice
// climatology data and the rules that turn it into categorical maps.
//
// # Data Source
//
// CIS publishes weekly ice climatologies as ESRI shapefiles. Each polygon
// carries coded attributes describing the ice normally found there during one
// week of the ice season (November through June). Two dataset families exist:
//
//	combined:   one shapefile per week carrying all five variables
//	individual: one shapefile per week and variable ("gl_ctmed1105.shp")
//
// # Variables
//
//	ctmed  median ice concentration
//	cpmed  median ice concentration when ice is present
//	icfrq  frequency of presence of ice
//	pimed  median predominant ice type
//	prmed  median predominant ice type when ice is present
//
// # Code Conventions
//
// Concentration (ctmed, cpmed) is coded in tenths of coverage:
//
//	10 20 30 -> 1 - 3/10     70 80 -> 7 - 8/10     92 -> 10/10
//	40 50 60 -> 4 - 6/10     90 91 -> 9 - 9+/10    other -> Less than 1/10
//
// Ice type (pimed, prmed) uses the lake ice stage-of-development codes:
//
//	01 Ice Free   81 New   84 Thin   85 91 Medium   87 Thick   other Very Thick
//
// Both families share the letter markers "L" (land) and "X" (no ice
// assigned). Land and X polygons are removed before display.
//
// Frequency (icfrq) is a fraction in [0, 1] bucketed at 1, 4, 17, 34, 50, 67,
// 83 and 97 percent. Upper bounds are exclusive. The value -1 means no data.
//
// Blank attributes are null and classify as "No data".
//
// # Week Identifiers
//
// A week is identified by "MMDD", the month and the day the week starts:
// "1105" is the week of November 5. The valid weeks are listed in [Calendar].
// Combined files for November and December use the 1990-2019 normal; all
// other months use 1991-2020 (see [YearSuffix]).
package domain
