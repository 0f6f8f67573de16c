// README: Offline rate calculator over a rate table file; can also publish the file to Postgres.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"shipcalc/internal/infra"
	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/modules/ratetable"
)

type options struct {
	ratesPath  string
	length     float64
	breadth    float64
	height     float64
	weight     float64
	zone       string
	service    string
	asJSON     bool
	publishDSN string
}

func main() {
	var opts options
	flag.StringVar(&opts.ratesPath, "rates", "configs/rates.json", "Rate table JSON file")
	flag.Float64Var(&opts.length, "l", 0, "Length (cm)")
	flag.Float64Var(&opts.breadth, "b", 0, "Breadth (cm)")
	flag.Float64Var(&opts.height, "h", 0, "Height (cm)")
	flag.Float64Var(&opts.weight, "w", 0, "Actual weight (kg)")
	flag.StringVar(&opts.zone, "zone", "", "Zone key (local, regional, national)")
	flag.StringVar(&opts.service, "service", "", "Service type; empty compares every offered service")
	flag.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")
	flag.StringVar(&opts.publishDSN, "publish", "", "Validate the rate file and publish it to this Postgres DSN, then exit")
	flag.Parse()

	logger := infra.NewLogger("info", "text")
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		logger.Error("ratecalc failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	table, err := ratetable.FileSource{Path: opts.ratesPath}.Load(ctx)
	if err != nil {
		return err
	}
	if opts.publishDSN != "" {
		return publish(ctx, opts.publishDSN, table, out)
	}
	if opts.zone == "" {
		return errors.New("-zone is required")
	}

	svc := pricing.NewService(ratetable.NewStaticRegistry(table))
	weights, err := svc.Volumetric(pricing.Dimensions{Length: opts.length, Breadth: opts.breadth, Height: opts.height}, opts.weight)
	if err != nil {
		return err
	}

	var rates []pricing.Priced
	if opts.service != "" {
		r, err := svc.Rate(ctx, weights.ChargeableWeight, opts.zone, opts.service)
		if err != nil {
			return err
		}
		rates = []pricing.Priced{r}
	} else {
		rates, err = svc.Options(ctx, weights.ChargeableWeight, opts.zone)
		if err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"weights": weights, "rates": rates})
	}
	return printTable(out, weights, rates)
}

func publish(ctx context.Context, dsn string, table *ratetable.RateTable, out io.Writer) error {
	db, err := infra.NewDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := ratetable.NewStore(db).Save(ctx, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "published rate table %s\n", table.Version)
	return err
}

func printTable(out io.Writer, w pricing.VolumetricCalcResult, rates []pricing.Priced) error {
	fmt.Fprintf(out, "volumetric %.2f kg, actual %.2f kg, chargeable %.2f kg\n\n", w.VolumetricWeight, w.ActualWeight, w.ChargeableWeight)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SERVICE\tDAYS\tBASE\tFUEL\tSUBTOTAL\tGST\tTOTAL\t")
	for _, r := range rates {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f %s\t\n",
			r.Service, r.DeliveryDays, r.BaseAmount, r.FuelSurcharge, r.Subtotal, r.GST, r.Total, r.Currency)
	}
	return tw.Flush()
}
