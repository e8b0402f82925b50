// Command windcheck derives wind speed and meteorological direction from the
// first U/V component pair in a decoder output, as a physical sanity check
// that goes beyond numeric parity: a decoder can reproduce pygrib's numbers
// bit for bit and still have U and V swapped.
//
// Usage:
//
//	go run ./cmd/windcheck -input decoder_raw.json -lat -34 -lon 151
//	go run ./cmd/windcheck -input decoder_raw.json -place Sydney -region NSW
//
// The point of interest can be given as -lat/-lon, a flat -index, or a
// -place name resolved through Mapbox (requires MAPBOX_TOKEN).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/grib-parity/internal/adapter/mapbox"
	"github.com/couchcryptid/grib-parity/internal/config"
	"github.com/couchcryptid/grib-parity/internal/domain"
	"github.com/couchcryptid/grib-parity/internal/observability"
)

const (
	indicatorUWind = 33
	indicatorVWind = 34

	metersPerSecondToKnots = 1.94384
)

func main() {
	input := flag.String("input", "", "path to raw decoder output with full value arrays")
	lat := flag.Float64("lat", 0, "point of interest latitude")
	lon := flag.Float64("lon", 0, "point of interest longitude")
	index := flag.Int("index", -1, "point of interest as a flat grid index")
	place := flag.String("place", "", "point of interest as a place name (needs MAPBOX_TOKEN)")
	region := flag.String("region", "", "region qualifier for -place")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*input, *lat, *lon, *index, *place, *region, isFlagSet("lat") || isFlagSet("lon")))
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func run(input string, lat, lon float64, index int, place, region string, haveLatLon bool) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 2
	}
	logger := observability.NewLogger(cfg)

	f, err := os.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}
	raws, err := domain.DecodeRawMessages(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", input, err)
		return 2
	}

	uMsg, vMsg := findWindPair(raws)
	if uMsg == nil || vMsg == nil {
		fmt.Fprintln(os.Stderr, "FATAL: could not find U/V wind component messages")
		return 2
	}

	fmt.Printf("U message: %s\n", uMsg.ParameterName)
	fmt.Printf("V message: %s\n", vMsg.ParameterName)
	if uMsg.Ni != nil && uMsg.Nj != nil {
		fmt.Printf("Grid: %d x %d\n", *uMsg.Ni, *uMsg.Nj)
	}

	printFirstPoints(uMsg.Values, vMsg.Values)

	// Resolve the point of interest, if one was given.
	switch {
	case place != "":
		if !cfg.MapboxEnabled {
			fmt.Fprintln(os.Stderr, "FATAL: -place requires MAPBOX_TOKEN")
			return 2
		}
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger)
		geocoder := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize)

		result, err := geocoder.ForwardGeocode(context.Background(), place, region)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: geocode %q: %v\n", place, err)
			return 2
		}
		if result.FormattedAddress == "" {
			fmt.Fprintf(os.Stderr, "FATAL: no geocoding result for %q\n", place)
			return 2
		}
		fmt.Printf("\nResolved %q to %s (%.4f, %.4f)\n", place, result.FormattedAddress, result.Lat, result.Lon)
		return printPointOfInterest(uMsg, vMsg, result.Lat, result.Lon)

	case index >= 0:
		return printPointAtIndex(uMsg, vMsg, index)

	case haveLatLon:
		return printPointOfInterest(uMsg, vMsg, lat, lon)
	}

	printDirectionTable()
	return 0
}

// findWindPair returns the first U and V component messages, matched by GRIB1
// parameter indicator.
func findWindPair(raws []domain.RawMessage) (u, v *domain.RawMessage) {
	for i := range raws {
		ind := raws[i].IndicatorOfParameter
		if ind == nil {
			continue
		}
		if *ind == indicatorUWind && u == nil {
			u = &raws[i]
		}
		if *ind == indicatorVWind && v == nil {
			v = &raws[i]
		}
		if u != nil && v != nil {
			break
		}
	}
	return u, v
}

func printFirstPoints(uVals, vVals []float64) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("FIRST 10 GRID POINTS - WIND ANALYSIS")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%4s %10s %10s %10s %10s\n", "Idx", "U (m/s)", "V (m/s)", "Speed", "Dir FROM")
	fmt.Println(strings.Repeat("-", 50))

	n := 10
	if len(uVals) < n {
		n = len(uVals)
	}
	if len(vVals) < n {
		n = len(vVals)
	}
	for i := 0; i < n; i++ {
		speed, direction := domain.Wind(uVals[i], vVals[i])
		fmt.Printf("%4d %10.4f %10.4f %10.4f %9.1f°\n", i, uVals[i], vVals[i], speed, direction)
	}
}

func printPointOfInterest(uMsg, vMsg *domain.RawMessage, lat, lon float64) int {
	rec := domain.MessageRecord{MessageMeta: uMsg.MessageMeta}
	g, err := rec.Geometry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: resolve grid geometry: %v\n", err)
		return 2
	}

	idx := g.NearestIndex(lat, lon)
	gridLat, gridLon := g.LatLon(idx)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("POINT OF INTEREST (%.2f, %.2f)\n", lat, lon)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Closest grid point: index %d\n", idx)
	fmt.Printf("  Lat: %.2f, Lon: %.2f\n", gridLat, gridLon)

	return printPoint(uMsg, vMsg, idx)
}

func printPointAtIndex(uMsg, vMsg *domain.RawMessage, idx int) int {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("GRID POINT %d\n", idx)
	fmt.Println(strings.Repeat("=", 80))
	return printPoint(uMsg, vMsg, idx)
}

func printPoint(uMsg, vMsg *domain.RawMessage, idx int) int {
	if idx < 0 || idx >= len(uMsg.Values) || idx >= len(vMsg.Values) {
		fmt.Fprintf(os.Stderr, "FATAL: index %d out of range (%d values)\n", idx, len(uMsg.Values))
		return 2
	}

	u, v := uMsg.Values[idx], vMsg.Values[idx]
	speed, direction := domain.Wind(u, v)

	fmt.Printf("  U: %.4f m/s\n", u)
	fmt.Printf("  V: %.4f m/s\n", v)
	fmt.Printf("  Speed: %.2f m/s (%.1f kts)\n", speed, speed*metersPerSecondToKnots)
	fmt.Printf("  Direction: %.1f° (wind coming FROM)\n", direction)
	fmt.Printf("  Compass: %s wind\n", domain.Compass(direction))
	fmt.Printf("  Wind blowing TOWARDS: %.1f°\n", domain.TowardBearing(direction))
	return 0
}

// printDirectionTable shows the eight cardinal U/V combinations, as a quick
// reference that the FROM convention is being applied.
func printDirectionTable() {
	cases := []struct {
		u, v float64
		desc string
	}{
		{0, -1, "Wind FROM North (blowing south)"},
		{1, 0, "Wind FROM West (blowing east)"},
		{0, 1, "Wind FROM South (blowing north)"},
		{-1, 0, "Wind FROM East (blowing west)"},
		{1, -1, "Wind FROM NW (blowing SE)"},
		{-1, -1, "Wind FROM NE (blowing SW)"},
		{-1, 1, "Wind FROM SE (blowing NW)"},
		{1, 1, "Wind FROM SW (blowing NE)"},
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("DIRECTION CALCULATION REFERENCE")
	fmt.Println(strings.Repeat("=", 80))
	for _, c := range cases {
		_, direction := domain.Wind(c.u, c.v)
		fmt.Printf("  U=%2.0f, V=%2.0f -> Dir=%6.1f° : %s\n", c.u, c.v, direction, c.desc)
	}
}
