// Command swx fetches the current SWPC solar wind products once and prints
// a summary of the newest merged measurement. Useful for checking upstream
// data quality without running the service.
//
// Usage:
//
//	go run ./cmd/swx -window 5-minute
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/solar-wind-etl/internal/adapter/swpc"
	"github.com/couchcryptid/solar-wind-etl/internal/config"
	"github.com/couchcryptid/solar-wind-etl/internal/domain"
	"github.com/couchcryptid/solar-wind-etl/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	baseURL := flag.String("base-url", "https://services.swpc.noaa.gov/products/solar-wind", "SWPC product base URL")
	window := flag.String("window", "5-minute", "product window (5-minute, 2-hour, 6-hour, 1-day, 3-day, 7-day)")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout")
	flag.Parse()

	cfg := &config.Config{
		SWPCBaseURL:  *baseURL,
		SWPCWindow:   *window,
		FetchTimeout: *timeout,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := swpc.NewClient(cfg, observability.NewMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mags, err := client.FetchMagnetometer(ctx)
	if err != nil {
		return fmt.Errorf("magnetometer: %w", err)
	}
	plasmas, err := client.FetchPlasma(ctx)
	if err != nil {
		return fmt.Errorf("plasma: %w", err)
	}

	records := domain.MergeReadings(mags, plasmas)
	if len(records) == 0 {
		return fmt.Errorf("no overlapping magnetometer/plasma measurements in the %s window", *window)
	}

	printSummary(os.Stdout, records[len(records)-1], *window)
	return nil
}

func printSummary(w io.Writer, rec domain.SolarWindRecord, window string) {
	fmt.Fprintf(w, "Solar wind at %s (%s window)\n", rec.TimeTag.Format(time.RFC3339), window)
	fmt.Fprintf(w, "  IMF:    Bx %+.2f  By %+.2f  Bz %+.2f  Bt %.2f nT\n",
		rec.Mag.BxGSM, rec.Mag.ByGSM, rec.Mag.BzGSM, rec.Mag.Bt)
	fmt.Fprintf(w, "  Plasma: %.2f p/cm3  %.1f km/s  %d K\n",
		rec.Plasma.Density, rec.Plasma.Speed, rec.Plasma.Temperature)
	fmt.Fprintf(w, "  Derived:\n")
	fmt.Fprintf(w, "    dynamic pressure  %.3f nPa\n", rec.Derived.DynamicPressure)
	fmt.Fprintf(w, "    alfven speed      %.1f km/s (Mach %.2f)\n", rec.Derived.AlfvenSpeed, rec.Derived.AlfvenMach)
	fmt.Fprintf(w, "    clock angle       %.1f deg\n", rec.Derived.ClockAngle*180/math.Pi)
	fmt.Fprintf(w, "    newell coupling   %.1f\n", rec.Derived.NewellCoupling)
}
