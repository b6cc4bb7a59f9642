// Command gridctl is a small demo CLI over the airspace grid engine: it
// exercises the manager façade end to end (generate, encode, decode,
// route) the same flat, no-framework way the teacher's quick-start
// examples call straight into its library packages.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/iwheregis/airspacegrid/pkg/grid"
	"github.com/iwheregis/airspacegrid/pkg/manager"
	"github.com/iwheregis/airspacegrid/pkg/route"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "route":
		runRoute(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gridctl <generate|encode|decode|route> [flags]")
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	lonMin := fs.Float64("lon-min", 0, "western bbox edge")
	lonMax := fs.Float64("lon-max", 0, "eastern bbox edge")
	latMin := fs.Float64("lat-min", 0, "southern bbox edge")
	latMax := fs.Float64("lat-max", 0, "northern bbox edge")
	level := fs.Int("level", 6, "grid level (1-16)")
	altMin := fs.Float64("alt-min", 0, "minimum altitude, meters")
	altMax := fs.Float64("alt-max", grid.MaxElevation, "maximum altitude, meters")
	fs.Parse(args)

	mgr := manager.New()
	bbox := grid.Bounds{MinLon: *lonMin, MaxLon: *lonMax, MinLat: *latMin, MaxLat: *latMax}
	cells, err := mgr.Generate(bbox, *level, *altMin, *altMax)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("generated %d cells at level %d\n", len(cells), *level)
	for _, c := range cells {
		fmt.Printf("  %s  bbox=%v alt=%v\n", c.Code, c.BBox, c.AltRange)
	}
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	lon := fs.Float64("lon", 0, "longitude, degrees")
	lat := fs.Float64("lat", 0, "latitude, degrees")
	alt := fs.Float64("alt", 0, "altitude, meters")
	level := fs.Int("level", 8, "grid level (1-16)")
	fs.Parse(args)

	mgr := manager.New()
	code, err := mgr.EncodeCoords(*lon, *lat, *alt, *level)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(code)
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gridctl decode <code>")
		os.Exit(1)
	}

	mgr := manager.New()
	cell, err := mgr.GetByCode(fs.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("level=%d bbox=%v centre=%v alt=%v size=%+v\n",
		cell.Level, cell.BBox, cell.Centre, cell.AltRange, cell.Size)
}

// runRoute parses waypoints given as "lon,lat,alt" positional arguments
// and prints the grid codes the route traverses.
func runRoute(args []string) {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	level := fs.Int("level", 8, "grid level (1-16)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: gridctl route -level N lon,lat,alt [lon,lat,alt ...]")
		os.Exit(1)
	}

	waypoints := make([]route.Waypoint, fs.NArg())
	for i, arg := range fs.Args() {
		wp, err := parseWaypoint(arg)
		if err != nil {
			log.Fatalf("waypoint %d: %v", i, err)
		}
		waypoints[i] = wp
	}

	mgr := manager.New()
	codes, lastCell, err := mgr.Route(waypoints, *level, route.Options{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d codes, final cell %s\n", len(codes), lastCell.Code)
	for _, code := range codes {
		fmt.Println(" ", code)
	}
}

func parseWaypoint(s string) (route.Waypoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return route.Waypoint{}, fmt.Errorf("expected lon,lat,alt, got %q", s)
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return route.Waypoint{}, fmt.Errorf("lon: %w", err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return route.Waypoint{}, fmt.Errorf("lat: %w", err)
	}
	alt, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return route.Waypoint{}, fmt.Errorf("alt: %w", err)
	}
	return route.Waypoint{Lon: lon, Lat: lat, Alt: alt}, nil
}
