package domain

// MessageMeta holds the per-message metadata both decoders report. Field names
// follow the pygrib attribute names the reference extractor uses, so record
// files from either side decode with the same struct. Optional attributes are
// pointers: a decoder that cannot produce a field emits null, which must read
// back as "not comparable" rather than zero.
type MessageMeta struct {
	Message              int     `json:"message"` // 1-based ordinal in the file
	ParameterName        string  `json:"parameterName,omitempty"`
	ShortName            string  `json:"shortName,omitempty"`
	IndicatorOfParameter *int    `json:"indicatorOfParameter,omitempty"`
	Table2Version        *int    `json:"table2Version,omitempty"`
	Level                *int    `json:"level,omitempty"`
	LevelType            string  `json:"levelType,omitempty"`
	TypeOfLevel          string  `json:"typeOfLevel,omitempty"`
	ValidDate            string  `json:"validDate,omitempty"`
	AnalDate             string  `json:"analDate,omitempty"`
	DataDate             *int    `json:"dataDate,omitempty"`
	DataTime             *int    `json:"dataTime,omitempty"`
	Year                 *int    `json:"year,omitempty"`
	Month                *int    `json:"month,omitempty"`
	Day                  *int    `json:"day,omitempty"`
	Hour                 *int    `json:"hour,omitempty"`
	Minute               *int    `json:"minute,omitempty"`

	Ni                        *int     `json:"Ni,omitempty"`
	Nj                        *int     `json:"Nj,omitempty"`
	LatitudeOfFirstGridPoint  *float64 `json:"latitudeOfFirstGridPoint,omitempty"`
	LongitudeOfFirstGridPoint *float64 `json:"longitudeOfFirstGridPoint,omitempty"`
	LatitudeOfLastGridPoint   *float64 `json:"latitudeOfLastGridPoint,omitempty"`
	LongitudeOfLastGridPoint  *float64 `json:"longitudeOfLastGridPoint,omitempty"`
	IDirectionIncrement       *float64 `json:"iDirectionIncrement,omitempty"`
	JDirectionIncrement       *float64 `json:"jDirectionIncrement,omitempty"`
}

// MessageRecord is the normalized, comparison-ready form of one decoded
// message. Exactly one of AllValues or First10/Last10 is populated, decided by
// the sampling policy at build time; Min/Max/Mean are always present.
type MessageRecord struct {
	MessageMeta

	NumValues int     `json:"numValues"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`

	AllValues  []float64          `json:"allValues,omitempty"`
	First10    []float64          `json:"first10,omitempty"`
	Last10     []float64          `json:"last10,omitempty"`
	SpotValues map[string]float64 `json:"spotValues,omitempty"`

	// First/last entries of the flattened coordinate arrays. Redundant with
	// the grid-point metadata above; kept as a decoder cross-check.
	FirstLat *float64 `json:"firstLat,omitempty"`
	FirstLon *float64 `json:"firstLon,omitempty"`
	LastLat  *float64 `json:"lastLat,omitempty"`
	LastLon  *float64 `json:"lastLon,omitempty"`
}

// Exhaustive reports whether this record carries the full value array.
func (r *MessageRecord) Exhaustive() bool {
	return r.AllValues != nil
}

// RawMessage is one fully decoded message as a collaborator decoder dumps it:
// metadata plus the complete flattened value and coordinate arrays, before any
// sampling or statistics.
type RawMessage struct {
	MessageMeta

	Values     []float64 `json:"values"`
	Latitudes  []float64 `json:"latitudes,omitempty"`
	Longitudes []float64 `json:"longitudes,omitempty"`
}
